package probes

import (
	"context"
	"fmt"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const defaultResourceWarnPercent = 90.0

type systemResourcesProbe struct {
	path     string
	diskWarn float64
	memWarn  float64
}

// NewSystemResources probes host disk and memory usage. Usage above a warn
// threshold is Degraded: the host still works, it is running out of room.
func NewSystemResources(path string, diskWarnPercent, memWarnPercent float64) probe.Probe {
	if path == "" {
		path = "/"
	}
	if diskWarnPercent <= 0 {
		diskWarnPercent = defaultResourceWarnPercent
	}
	if memWarnPercent <= 0 {
		memWarnPercent = defaultResourceWarnPercent
	}
	return &systemResourcesProbe{path: path, diskWarn: diskWarnPercent, memWarn: memWarnPercent}
}

func (p *systemResourcesProbe) Name() string {
	return "system-resources"
}

func (p *systemResourcesProbe) Check(ctx context.Context) health.Result {
	usage, err := disk.UsageWithContext(ctx, p.path)
	if err != nil {
		return health.Unknown(fmt.Sprintf("could not read disk usage for %s", p.path), err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return health.Unknown("could not read memory usage", err)
	}

	status := health.StatusHealthy
	if usage.UsedPercent > p.diskWarn || vm.UsedPercent > p.memWarn {
		status = health.StatusDegraded
	}

	detail := fmt.Sprintf("disk %.1f%% used on %s, memory %.1f%% used", usage.UsedPercent, p.path, vm.UsedPercent)
	return health.Result{Status: status, Detail: detail}
}
