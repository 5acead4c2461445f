package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const userAgent = "astro-chart-service/1.0"

type httpStatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// retryable reports whether another attempt can succeed: rate limits and
// server-side failures, never 4xx client errors (a bad payload stays bad).
func (e *httpStatusError) retryable() bool {
	switch e.Code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (p *AstroAPIProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (p *AstroAPIProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return resp, nil
}

// parseRetryAfter reads the delay-seconds form of the Retry-After header the
// astrology API sends on 429 responses. The HTTP-date form and malformed
// values fall back to 0, meaning plain exponential backoff.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}

	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}

	return time.Duration(secs) * time.Second
}

// doWithRetry retries transient failures (network errors, retryable HTTP
// statuses) while respecting context cancellation. Rate-limit responses
// wait out the server-advertised Retry-After delay when present; everything
// else uses exponential backoff.
func (p *AstroAPIProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		wait := backoff
		retry := false

		var he *httpStatusError
		if errors.As(err, &he) {
			retry = he.retryable()
			if retry && he.RetryAfter > 0 {
				wait = he.RetryAfter
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
