package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const httpErrorBodyLimit = 1024

type timingConfig struct {
	timeout           time.Duration
	rateInterval      time.Duration
	rateBurst         int
	backoffMaxElapsed time.Duration
	backoffMax        time.Duration
	backoffInitial    time.Duration
}

var defaultTiming = timingConfig{
	timeout:           10 * time.Second,
	rateInterval:      1 * time.Second,
	rateBurst:         1,
	backoffMaxElapsed: 30 * time.Second,
	backoffMax:        10 * time.Second,
	backoffInitial:    1 * time.Second,
}

// httpPoster delivers payloads to one URL with rate limiting and backoff.
// Retrying is done here, not in the retryablehttp client, so Retry-After
// and context cancellation can be honored per attempt.
type httpPoster struct {
	logger  zerolog.Logger
	label   string
	url     string
	client  *retryablehttp.Client
	timing  timingConfig
	limiter *rate.Limiter
}

func newHTTPPoster(logger zerolog.Logger, label, url string, timing timingConfig) *httpPoster {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.CheckRetry = func(_ context.Context, _ *http.Response, _ error) (bool, error) {
		return false, nil
	}
	client.Logger = nil
	client.HTTPClient = &http.Client{Timeout: timing.timeout}

	return &httpPoster{
		logger:  logger,
		label:   label,
		url:     url,
		client:  client,
		timing:  timing,
		limiter: rate.NewLimiter(rate.Every(timing.rateInterval), timing.rateBurst),
	}
}

func (p *httpPoster) waitForRateLimit(ctx context.Context) error {
	if p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}

func (p *httpPoster) postWithRetry(ctx context.Context, payload []byte) error {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = p.timing.backoffInitial
	backoffCfg.MaxInterval = p.timing.backoffMax
	backoffCfg.MaxElapsedTime = p.timing.backoffMaxElapsed
	backoffCfg.Reset()

	for {
		if err := p.postOnce(ctx, payload); err != nil {
			var retryAfter *retryAfterError
			if errors.As(err, &retryAfter) {
				if !sleepWithContext(ctx, retryAfter.Duration) {
					return ctx.Err()
				}
				continue
			}
			var retryable *retryableError
			if !errors.As(err, &retryable) {
				return err
			}
			wait := backoffCfg.NextBackOff()
			if wait == backoff.Stop {
				return err
			}
			if !sleepWithContext(ctx, wait) {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
}

func (p *httpPoster) postOnce(ctx context.Context, payload []byte) error {
	reqCtx, cancel := context.WithTimeout(ctx, p.timing.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(reqCtx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", p.label, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("%s request failed: %w", p.label, err)}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, httpErrorBodyLimit))
	bodyText := strings.TrimSpace(string(body))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		if wait, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
			return &retryAfterError{
				Duration: wait,
				err:      fmt.Errorf("%s rate limited: %s", p.label, resp.Status),
			}
		}
		return &retryableError{err: fmt.Errorf("%s rate limited: %s", p.label, resp.Status)}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return &retryableError{err: fmt.Errorf("%s server error: %s", p.label, resp.Status)}
	}
	if bodyText != "" {
		return fmt.Errorf("%s request failed: %s (%s)", p.label, resp.Status, bodyText)
	}
	return fmt.Errorf("%s request failed: %s", p.label, resp.Status)
}

func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		wait := time.Until(when)
		if wait <= 0 {
			return 0, false
		}
		return wait, true
	}
	return 0, false
}

func sleepWithContext(ctx context.Context, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

type retryAfterError struct {
	Duration time.Duration
	err      error
}

func (e *retryAfterError) Error() string {
	return fmt.Sprintf("rate limited; retry after %s", e.Duration)
}

func (e *retryAfterError) Unwrap() error {
	return e.err
}
