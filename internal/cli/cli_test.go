package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nholik/pulsecheck/internal/config"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/rs/zerolog"
)

func testConfig() config.Config {
	return config.Config{
		LogLevel:      "error",
		ProbeTimeout:  5 * time.Second,
		MaxConcurrent: 4,
		Interval:      time.Second,
		Format:        "summary",
	}
}

func TestRootCommandListsSubcommands(t *testing.T) {
	root := newRootCommand(zerolog.Nop(), testConfig())

	want := []string{"all", "containers", "infrastructure", "services", "gpu", "system", "monitor", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCommand(zerolog.Nop(), testConfig())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "pulsecheck") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	root := newRootCommand(zerolog.Nop(), testConfig())
	root.SetArgs([]string{"all", "--format", "xml"})

	err := root.ExecuteContext(context.Background())
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown report format") {
		t.Errorf("error = %v", err)
	}
}

func TestCheckEmptyTargetsExitsUnhealthy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatalf("write targets: %v", err)
	}

	root := newRootCommand(zerolog.Nop(), testConfig())
	root.SetArgs([]string{"all", "--format", "summary", "--targets", path})

	err := root.ExecuteContext(context.Background())

	var unhealthy *unhealthyError
	if !errors.As(err, &unhealthy) {
		t.Fatalf("expected an unhealthy exit, got %v", err)
	}
	if unhealthy.overall != health.StatusUnknown {
		t.Errorf("overall = %v, want %v", unhealthy.overall, health.StatusUnknown)
	}
}
