package probes

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

type configFilesProbe struct {
	name  string
	paths []string
}

// NewConfigFiles probes for the presence of configuration files. One missing
// file is Degraded, more than one Unhealthy.
func NewConfigFiles(name string, paths []string) probe.Probe {
	return &configFilesProbe{name: name, paths: paths}
}

func (p *configFilesProbe) Name() string {
	return p.name
}

func (p *configFilesProbe) Check(_ context.Context) health.Result {
	if len(p.paths) == 0 {
		return health.Unknown("no configuration files configured", nil)
	}

	var missing []string
	for _, path := range p.paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}

	switch {
	case len(missing) == 0:
		return health.Healthy(fmt.Sprintf("%d configuration files present", len(p.paths)))
	case len(missing) == 1:
		return health.Degraded(fmt.Sprintf("missing: %s", missing[0]), nil)
	default:
		return health.Unhealthy(fmt.Sprintf("missing: %s", strings.Join(missing, ", ")), nil)
	}
}
