package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-widget/internal/metrics"
	"github.com/i474232898/weather-widget/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and what the breaker needs.
type HTTPClientConfig struct {
	Client  *http.Client
	Metrics metrics.Recorder
}

var errNoHTTPClient = errors.New("http client not configured")

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// doRequest executes exactly one attempt through the circuit breaker.
// Transport failures, 429 and 5xx count against the breaker; any other
// non-2xx status is returned as a *weather.FetchError without tripping it.
// The caller owns the returned body.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	endpoint string,
	rawURL string,
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	rec := cfg.Metrics
	if rec == nil {
		rec = metrics.Noop{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}

	started := time.Now()
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			drain(resp)
			return nil, &weather.FetchError{StatusCode: resp.StatusCode, Status: statusText(resp)}
		}
		return resp, nil
	})

	if err != nil {
		var fe *weather.FetchError
		if errors.As(err, &fe) {
			rec.ObserveFetch(endpoint, fe.StatusCode, time.Since(started))
			return nil, fe
		}
		rec.ObserveFetch(endpoint, 0, time.Since(started))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", weather.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	rec.ObserveFetch(endpoint, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drain(resp)
		return nil, &weather.FetchError{StatusCode: resp.StatusCode, Status: statusText(resp)}
	}
	return resp, nil
}

// statusText strips the numeric prefix net/http puts in Response.Status.
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
