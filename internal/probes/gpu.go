package probes

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

const (
	gpuTempUnhealthy  = 95.0
	gpuTempDegraded   = 85.0
	gpuMemWarnRatio   = 0.90
	gpuPowerWarnRatio = 0.95
)

var gpuQueryArgs = []string{
	"--query-gpu=index,name,temperature.gpu,memory.used,memory.total,power.draw,power.limit",
	"--format=csv,noheader,nounits",
}

// CommandRunner executes an external command and returns its stdout. It
// exists so GPU tests run without vendor tooling installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type gpuProbe struct {
	runner CommandRunner
}

// NewGPU probes NVIDIA GPU hardware through nvidia-smi. Absent tooling or
// hardware is Unknown, not a failure: a host without GPUs is not unhealthy,
// there is just nothing to report.
func NewGPU() probe.Probe {
	return &gpuProbe{runner: execRunner{}}
}

func (p *gpuProbe) Name() string {
	return "gpu"
}

func (p *gpuProbe) Check(ctx context.Context) health.Result {
	out, err := p.runner.Run(ctx, "nvidia-smi", gpuQueryArgs...)
	if err != nil {
		return health.Unknown("no supported GPU hardware detected", err)
	}

	lines := nonEmptyLines(string(out))
	if len(lines) == 0 {
		return health.Unknown("no supported GPU hardware detected", nil)
	}

	status := health.StatusHealthy
	details := make([]string, 0, len(lines))
	for _, line := range lines {
		gpuStatus, detail, err := evaluateGPU(line)
		if err != nil {
			return health.Unknown("unparseable nvidia-smi output", err)
		}
		status = health.Worst(status, gpuStatus)
		details = append(details, detail)
	}

	result := health.Result{Status: status, Detail: strings.Join(details, "; ")}
	return result
}

// evaluateGPU applies the per-GPU thresholds to one CSV line: temperature
// above 95C is Unhealthy, above 85C Degraded; memory use above 90% or power
// draw above 95% of the limit is Degraded.
func evaluateGPU(line string) (health.Status, string, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 7 {
		return health.StatusUnknown, "", fmt.Errorf("expected 7 fields, got %d in %q", len(fields), line)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	index, name := fields[0], fields[1]
	status := health.StatusHealthy
	var notes []string

	if temp, ok := parseMetric(fields[2]); ok {
		notes = append(notes, fmt.Sprintf("%.0fC", temp))
		switch {
		case temp > gpuTempUnhealthy:
			status = health.Worst(status, health.StatusUnhealthy)
		case temp > gpuTempDegraded:
			status = health.Worst(status, health.StatusDegraded)
		}
	}

	memUsed, usedOK := parseMetric(fields[3])
	memTotal, totalOK := parseMetric(fields[4])
	if usedOK && totalOK && memTotal > 0 {
		ratio := memUsed / memTotal
		notes = append(notes, fmt.Sprintf("mem %.1f%%", ratio*100))
		if ratio > gpuMemWarnRatio {
			status = health.Worst(status, health.StatusDegraded)
		}
	}

	powerDraw, drawOK := parseMetric(fields[5])
	powerLimit, limitOK := parseMetric(fields[6])
	if drawOK && limitOK && powerLimit > 0 {
		ratio := powerDraw / powerLimit
		notes = append(notes, fmt.Sprintf("power %.1f%%", ratio*100))
		if ratio > gpuPowerWarnRatio {
			status = health.Worst(status, health.StatusDegraded)
		}
	}

	detail := fmt.Sprintf("GPU%s %s: %s", index, name, strings.Join(notes, ", "))
	return status, detail, nil
}

// parseMetric reads one nvidia-smi numeric field. Fields report "[N/A]" for
// metrics a device does not expose; those are skipped, not errors.
func parseMetric(field string) (float64, bool) {
	if field == "" || strings.Contains(field, "N/A") {
		return 0, false
	}
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func nonEmptyLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
