package probes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

type composeFileProbe struct {
	name string
	path string
}

// NewComposeFile probes a compose file for presence and validity. A missing
// file is only Degraded (the stack may not be deployed from this host); a
// file that exists but does not parse is Unhealthy.
func NewComposeFile(name, path string) probe.Probe {
	return &composeFileProbe{name: name, path: path}
}

func (p *composeFileProbe) Name() string {
	return p.name
}

func (p *composeFileProbe) Check(ctx context.Context) health.Result {
	body, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health.Degraded("not found", err)
		}
		return health.Unhealthy("unreadable", err)
	}

	details := types.ConfigDetails{
		WorkingDir: filepath.Dir(p.path),
		ConfigFiles: []types.ConfigFile{
			{
				Filename: filepath.Base(p.path),
				Content:  body,
			},
		},
		Environment: types.Mapping{},
	}

	project, err := loader.LoadWithContext(ctx, details, func(opts *loader.Options) {
		opts.SetProjectName("pulsecheck", false)
	})
	if err != nil {
		return health.Unhealthy("invalid compose file", err)
	}

	return health.Healthy(fmt.Sprintf("%d services defined", len(project.Services)))
}
