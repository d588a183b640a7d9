package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/nholik/pulsecheck/internal/health"
	"github.com/rs/zerolog"
)

const defaultWebhookTemplate = `{{ toJson . }}`

// WebhookSink POSTs each report to a webhook URL. The body is produced by a
// text template executed against the report's JSON wire form; the default
// template ships the whole report as JSON.
type WebhookSink struct {
	logger   zerolog.Logger
	template *template.Template
	poster   *httpPoster
}

// NewWebhookSink creates a webhook sink. An empty URL yields a nil sink so
// callers can pass configuration through unconditionally.
func NewWebhookSink(logger zerolog.Logger, webhookURL, tmpl string) (*WebhookSink, error) {
	if webhookURL == "" {
		return nil, nil
	}
	if tmpl == "" {
		tmpl = defaultWebhookTemplate
	}

	parsed, err := template.New("webhook").Funcs(template.FuncMap{
		"toJson": func(v any) (string, error) {
			encoded, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(encoded), nil
		},
	}).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parse webhook template: %w", err)
	}

	return &WebhookSink{
		logger:   logger,
		template: parsed,
		poster:   newHTTPPoster(logger, "webhook", webhookURL, defaultTiming),
	}, nil
}

// Write implements Sink.
func (s *WebhookSink) Write(ctx context.Context, rep health.Report) error {
	if s == nil {
		return nil
	}

	if err := s.poster.waitForRateLimit(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, payloadFrom(rep)); err != nil {
		return fmt.Errorf("render webhook template: %w", err)
	}

	if err := s.poster.postWithRetry(ctx, buf.Bytes()); err != nil {
		return err
	}

	s.logger.Debug().
		Str("overall", rep.Overall.String()).
		Int("probes", len(rep.Results)).
		Msg("report delivered to webhook")

	return nil
}
