package probes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

const httpBodyLimit = 64 * 1024

type httpProbe struct {
	name   string
	url    string
	assert *jsonAssertion
	client *retryablehttp.Client
}

type jsonAssertion struct {
	field  string
	equals string
}

// HTTPOption customizes an HTTP probe.
type HTTPOption func(*httpProbe)

// WithJSONAssertion additionally requires a top-level string field of the
// JSON response body to equal a value, e.g. Grafana's database == "ok".
func WithJSONAssertion(field, equals string) HTTPOption {
	return func(p *httpProbe) {
		p.assert = &jsonAssertion{field: field, equals: equals}
	}
}

// NewHTTP probes an HTTP health endpoint with GET. Retries are disabled on
// the client: re-polling is the monitor's job, a probe reports one attempt.
func NewHTTP(name, url string, opts ...HTTPOption) probe.Probe {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil

	p := &httpProbe{name: name, url: url, client: client}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *httpProbe) Name() string {
	return p.name
}

func (p *httpProbe) Check(ctx context.Context) health.Result {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return health.Unhealthy("invalid request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return health.Degraded("request timed out", err)
		}
		return health.Unhealthy("endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return health.Degraded(fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	if p.assert != nil {
		return p.checkAssertion(resp)
	}

	return health.Healthy(fmt.Sprintf("endpoint accessible - %s", resp.Status))
}

// checkAssertion verifies the configured JSON body field. The endpoint
// answered, so every mismatch here is Degraded rather than Unhealthy.
func (p *httpProbe) checkAssertion(resp *http.Response) health.Result {
	var body map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, httpBodyLimit)).Decode(&body); err != nil {
		return health.Degraded("invalid JSON body", err)
	}

	value, ok := body[p.assert.field]
	if !ok {
		return health.Degraded(fmt.Sprintf("field %q missing from response", p.assert.field), nil)
	}
	if fmt.Sprint(value) != p.assert.equals {
		return health.Degraded(fmt.Sprintf("field %q = %q, want %q", p.assert.field, fmt.Sprint(value), p.assert.equals), nil)
	}

	return health.Healthy(fmt.Sprintf("endpoint accessible - %s, %s = %q", resp.Status, p.assert.field, p.assert.equals))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
