package probes

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/nholik/pulsecheck/internal/health"
)

type fakeCommandRunner struct {
	out []byte
	err error
}

func (f *fakeCommandRunner) Run(context.Context, string, ...string) ([]byte, error) {
	return f.out, f.err
}

func gpuWithOutput(out string, err error) *gpuProbe {
	return &gpuProbe{runner: &fakeCommandRunner{out: []byte(out), err: err}}
}

func TestGPUProbeUnavailableHardwareIsUnknown(t *testing.T) {
	p := gpuWithOutput("", exec.ErrNotFound)

	result := p.Check(context.Background())

	if result.Status != health.StatusUnknown {
		t.Fatalf("Status = %v, want %v", result.Status, health.StatusUnknown)
	}
	if result.Detail != "no supported GPU hardware detected" {
		t.Errorf("Detail = %q", result.Detail)
	}
}

func TestGPUProbeEvaluatesThresholds(t *testing.T) {
	cases := []struct {
		name string
		line string
		want health.Status
	}{
		{"nominal", "0, NVIDIA A100, 62, 10240, 40960, 150.00, 400.00", health.StatusHealthy},
		{"hot", "0, NVIDIA A100, 88, 10240, 40960, 150.00, 400.00", health.StatusDegraded},
		{"critical temperature", "0, NVIDIA A100, 97, 10240, 40960, 150.00, 400.00", health.StatusUnhealthy},
		{"memory pressure", "0, NVIDIA A100, 62, 38000, 40960, 150.00, 400.00", health.StatusDegraded},
		{"power pressure", "0, NVIDIA A100, 62, 10240, 40960, 390.00, 400.00", health.StatusDegraded},
		{"metrics not exposed", "0, NVIDIA A100, [N/A], [N/A], [N/A], [N/A], [N/A]", health.StatusHealthy},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			result := gpuWithOutput(tc.line+"\n", nil).Check(context.Background())
			if result.Status != tc.want {
				t.Errorf("Status = %v, want %v (detail %q)", result.Status, tc.want, result.Detail)
			}
		})
	}
}

func TestGPUProbeWorstAcrossDevices(t *testing.T) {
	out := strings.Join([]string{
		"0, NVIDIA A100, 62, 10240, 40960, 150.00, 400.00",
		"1, NVIDIA A100, 97, 10240, 40960, 150.00, 400.00",
	}, "\n")

	result := gpuWithOutput(out, nil).Check(context.Background())

	if result.Status != health.StatusUnhealthy {
		t.Fatalf("Status = %v, want %v", result.Status, health.StatusUnhealthy)
	}
	if !strings.Contains(result.Detail, "GPU0") || !strings.Contains(result.Detail, "GPU1") {
		t.Errorf("Detail = %q, want both devices mentioned", result.Detail)
	}
}

func TestGPUProbeEmptyOutputIsUnknown(t *testing.T) {
	result := gpuWithOutput("\n", nil).Check(context.Background())
	if result.Status != health.StatusUnknown {
		t.Fatalf("Status = %v, want %v", result.Status, health.StatusUnknown)
	}
}

func TestGPUProbeMalformedOutputIsUnknown(t *testing.T) {
	result := gpuWithOutput("garbage output", nil).Check(context.Background())
	if result.Status != health.StatusUnknown {
		t.Fatalf("Status = %v, want %v", result.Status, health.StatusUnknown)
	}
	if result.Err == nil {
		t.Errorf("expected Err describing the parse failure")
	}
}
