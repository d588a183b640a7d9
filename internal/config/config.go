package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envLogLevel        = "PC_LOG_LEVEL"
	envProbeTimeout    = "PC_PROBE_TIMEOUT"
	envMaxConcurrent   = "PC_MAX_CONCURRENT"
	envInterval        = "PC_INTERVAL"
	envMaxRuns         = "PC_MAX_RUNS"
	envFormat          = "PC_FORMAT"
	envTargetsFile     = "PC_TARGETS_FILE"
	envReportFile      = "PC_REPORT_FILE"
	envWebhookURL      = "PC_WEBHOOK_URL"
	envWebhookTemplate = "PC_WEBHOOK_TEMPLATE"
	envOpsAddr         = "PC_OPS_ADDR"
)

const (
	defaultLogLevel      = "info"
	defaultProbeTimeout  = 30 * time.Second
	defaultMaxConcurrent = 8
	defaultInterval      = 30 * time.Second
	defaultFormat        = "table"
)

var knownFormats = map[string]bool{
	"table":   true,
	"json":    true,
	"summary": true,
}

// Config describes runtime configuration loaded from the environment.
// Precedence is CLI flag over environment variable over default.
type Config struct {
	LogLevel        string
	ProbeTimeout    time.Duration
	MaxConcurrent   int
	Interval        time.Duration
	MaxRuns         int
	Format          string
	TargetsFile     string
	ReportFile      string
	WebhookURL      string
	WebhookTemplate string
	OpsAddr         string
}

// Load reads configuration from environment variables and a local .env file
// if present. Existing environment variables take precedence over values in .env.
func Load() (Config, error) {
	if err := loadDotEnvIfPresent(".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:      defaultLogLevel,
		ProbeTimeout:  defaultProbeTimeout,
		MaxConcurrent: defaultMaxConcurrent,
		Interval:      defaultInterval,
		Format:        defaultFormat,
	}

	if value, ok := lookupTrimmed(envLogLevel); ok {
		cfg.LogLevel = value
	}

	if value, ok := lookupTrimmed(envProbeTimeout); ok {
		timeout, err := parsePositiveDuration(value, envProbeTimeout)
		if err != nil {
			return Config{}, err
		}
		cfg.ProbeTimeout = timeout
	}

	if value, ok := lookupTrimmed(envMaxConcurrent); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envMaxConcurrent, err)
		}
		cfg.MaxConcurrent = n
	}

	if value, ok := lookupTrimmed(envInterval); ok {
		interval, err := parsePositiveDuration(value, envInterval)
		if err != nil {
			return Config{}, err
		}
		cfg.Interval = interval
	}

	if value, ok := lookupTrimmed(envMaxRuns); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envMaxRuns, err)
		}
		if n < 0 {
			return Config{}, fmt.Errorf("%s cannot be negative", envMaxRuns)
		}
		cfg.MaxRuns = n
	}

	if value, ok := lookupTrimmed(envFormat); ok {
		normalized := strings.ToLower(value)
		if !knownFormats[normalized] {
			return Config{}, fmt.Errorf("invalid %s: unknown format %q", envFormat, value)
		}
		cfg.Format = normalized
	}

	if value, ok := lookupTrimmed(envTargetsFile); ok {
		cfg.TargetsFile = value
	}

	if value, ok := lookupTrimmed(envReportFile); ok {
		cfg.ReportFile = value
	}

	if value, ok := lookupTrimmed(envWebhookURL); ok {
		if err := validateURL(value, envWebhookURL); err != nil {
			return Config{}, err
		}
		cfg.WebhookURL = value
	}

	if value, ok := lookupTrimmed(envWebhookTemplate); ok {
		cfg.WebhookTemplate = value
	}

	if value, ok := lookupTrimmed(envOpsAddr); ok {
		cfg.OpsAddr = value
	}

	return cfg, nil
}

func parsePositiveDuration(value, name string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", name)
	}
	return parsed, nil
}

func lookupTrimmed(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func loadDotEnvIfPresent(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) && errors.Is(pathErr.Err, os.ErrNotExist) {
		return nil
	}

	return err
}

func validateURL(value, name string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid %s: must include scheme and host", name)
	}
	return nil
}
