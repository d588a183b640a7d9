package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/nholik/pulsecheck/internal/config"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
	"github.com/nholik/pulsecheck/internal/probes"
	"github.com/nholik/pulsecheck/internal/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type checkFlags struct {
	targets string
	format  string
	timeout time.Duration
}

func (f *checkFlags) register(cmd *cobra.Command, cfg config.Config) {
	cmd.Flags().StringVar(&f.targets, "targets", cfg.TargetsFile, "path to a YAML targets file")
	cmd.Flags().StringVar(&f.format, "format", cfg.Format, "output format: table, json or summary")
	cmd.Flags().DurationVar(&f.timeout, "timeout", cfg.ProbeTimeout, "per-probe timeout")
}

// newCheckCommands builds the one-shot commands: `all` plus one command per
// probe category. They differ only in which categories they select.
func newCheckCommands(logger zerolog.Logger, cfg config.Config) []*cobra.Command {
	commands := []*cobra.Command{
		newCheckCommand(logger, cfg, "all", "Run every configured probe"),
	}
	for _, category := range probes.Categories() {
		commands = append(commands,
			newCheckCommand(logger, cfg, category, fmt.Sprintf("Run the %s probes", category)))
	}
	return commands
}

func newCheckCommand(logger zerolog.Logger, cfg config.Config, category, short string) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   category,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, logger, cfg, flags, category)
		},
	}
	flags.register(cmd, cfg)
	return cmd
}

func runCheck(cmd *cobra.Command, logger zerolog.Logger, cfg config.Config, flags checkFlags, category string) error {
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	targets, err := config.LoadTargets(flags.targets)
	if err != nil {
		return err
	}

	set, cleanup, err := probes.Build(logger, targets)
	if err != nil {
		return err
	}
	defer cleanup()

	var selected []probe.Probe
	if category == "all" {
		selected = set.All()
	} else if batch, err := set.Select(category); err == nil {
		// A category nothing is configured for yields an empty batch and
		// therefore an Unknown report, not an error.
		selected = batch
	}

	runner := probe.NewRunner(logger,
		probe.WithTimeout(flags.timeout),
		probe.WithMaxConcurrent(cfg.MaxConcurrent),
	)

	results := runner.Run(cmd.Context(), selected)
	rep := health.Aggregate(results)

	if err := report.Render(os.Stdout, rep, format); err != nil {
		return err
	}

	if rep.Overall != health.StatusHealthy {
		return &unhealthyError{overall: rep.Overall}
	}
	return nil
}
