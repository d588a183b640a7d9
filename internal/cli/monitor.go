package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/nholik/pulsecheck/internal/config"
	"github.com/nholik/pulsecheck/internal/metrics"
	"github.com/nholik/pulsecheck/internal/monitor"
	"github.com/nholik/pulsecheck/internal/probe"
	"github.com/nholik/pulsecheck/internal/probes"
	"github.com/nholik/pulsecheck/internal/report"
	"github.com/nholik/pulsecheck/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newMonitorCommand(logger zerolog.Logger, cfg config.Config) *cobra.Command {
	var (
		flags    checkFlags
		interval time.Duration
		maxRuns  int
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run passes continuously on an interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMonitor(cmd, logger, cfg, flags, interval, maxRuns)
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().DurationVar(&interval, "interval", cfg.Interval, "time between passes")
	cmd.Flags().IntVar(&maxRuns, "max-runs", cfg.MaxRuns, "stop after this many passes (0 = run forever)")
	return cmd
}

func runMonitor(cmd *cobra.Command, logger zerolog.Logger, cfg config.Config, flags checkFlags, interval time.Duration, maxRuns int) error {
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

	sink, err := buildSinks(logger, cfg, format)
	if err != nil {
		return err
	}

	runner := probe.NewRunner(logger,
		probe.WithTimeout(flags.timeout),
		probe.WithMaxConcurrent(cfg.MaxConcurrent),
	)

	opts := []monitor.Option{monitor.WithMaxRuns(maxRuns)}

	if cfg.OpsAddr != "" {
		collector := metrics.New()
		tracker := server.NewTracker()
		server.Start(cmd.Context(), logger, cfg.OpsAddr, interval, tracker, collector)
		opts = append(opts, monitor.WithMetrics(collector), monitor.WithTracker(tracker))
	}

	m := monitor.New(logger, runner, set.All(), sink, interval, opts...)
	return m.Run(cmd.Context())
}

// buildSinks assembles the report fan-out: always stdout, plus the file and
// webhook sinks when configured.
func buildSinks(logger zerolog.Logger, cfg config.Config, format report.Format) (report.Sink, error) {
	sinks := []report.Sink{report.NewWriterSink(os.Stdout, format)}

	if cfg.ReportFile != "" {
		sinks = append(sinks, report.NewFileSink(cfg.ReportFile, logger))
	}

	if cfg.WebhookURL != "" {
		tmpl := ""
		if cfg.WebhookTemplate != "" {
			body, err := os.ReadFile(cfg.WebhookTemplate)
			if err != nil {
				return nil, fmt.Errorf("read webhook template: %w", err)
			}
			tmpl = string(body)
		}
		webhook, err := report.NewWebhookSink(logger, cfg.WebhookURL, tmpl)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, webhook)
	}

	return report.NewMultiSink(sinks...), nil
}
