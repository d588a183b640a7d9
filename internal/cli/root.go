package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nholik/pulsecheck/internal/config"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// unhealthyError signals a non-zero exit for a one-shot pass whose overall
// verdict was not Healthy. The report is already rendered when it is
// returned, so Execute maps it to the exit code without printing anything.
type unhealthyError struct {
	overall health.Status
}

func (e *unhealthyError) Error() string {
	return fmt.Sprintf("overall status %s", e.overall)
}

// Execute runs the pulsecheck CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger := logging.NewWithLevel(cfg.LogLevel)

	root := newRootCommand(logger, cfg)
	if err := root.ExecuteContext(ctx); err != nil {
		var unhealthy *unhealthyError
		if errors.As(err, &unhealthy) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(logger zerolog.Logger, cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "pulsecheck",
		Short:         "Health checks for infrastructure stacks",
		Long:          "pulsecheck probes containers, databases, caches, coordination services, HTTP APIs and GPU hardware, and aggregates the results into one ranked verdict.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCheckCommands(logger, cfg)...)
	root.AddCommand(newMonitorCommand(logger, cfg))
	root.AddCommand(newVersionCommand())
	return root
}
