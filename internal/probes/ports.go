package probes

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

const portDialTimeout = 2 * time.Second

type portScanProbe struct {
	name    string
	targets []string
}

// NewPortScan probes TCP reachability of host:port targets. A reachable
// port counts as the service being up; that inversion of "open port = risk"
// is deliberate for a health checker watching its own stack.
func NewPortScan(name string, targets []string) probe.Probe {
	return &portScanProbe{name: name, targets: targets}
}

func (p *portScanProbe) Name() string {
	return p.name
}

func (p *portScanProbe) Check(ctx context.Context) health.Result {
	if len(p.targets) == 0 {
		return health.Unknown("no port targets configured", nil)
	}

	dialer := net.Dialer{Timeout: portDialTimeout}
	var unreachable []string
	for _, target := range p.targets {
		conn, err := dialer.DialContext(ctx, "tcp", target)
		if err != nil {
			unreachable = append(unreachable, target)
			continue
		}
		_ = conn.Close()
	}

	reachable := len(p.targets) - len(unreachable)
	switch {
	case len(unreachable) == 0:
		return health.Healthy(fmt.Sprintf("all %d ports reachable", len(p.targets)))
	case reachable*2 > len(p.targets):
		return health.Degraded(fmt.Sprintf("unreachable: %s", strings.Join(unreachable, ", ")), nil)
	default:
		return health.Unhealthy(fmt.Sprintf("unreachable: %s", strings.Join(unreachable, ", ")), nil)
	}
}
