package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// DefaultRetryDelay is the fixed pause between transport retries
const DefaultRetryDelay = 1500 * time.Millisecond

type retryKey struct{}

// withRetry marks a request context as safe to repeat after a transport failure
func withRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryKey{}, true)
}

func isRetryable(ctx context.Context) bool {
	ok, _ := ctx.Value(retryKey{}).(bool)
	return ok
}

// RetryDoer decorates a Doer with a capped number of retries at a fixed delay.
// Only requests whose context was marked with withRetry are repeated, and only
// when no response was received at all (timeout, refused or dropped connection).
// HTTP error statuses are never retried.
type RetryDoer struct {
	next     Doer
	attempts uint64
	delay    time.Duration
	logger   *slog.Logger
}

// NewRetryDoer wraps next. attempts is the number of retries after the first try.
func NewRetryDoer(next Doer, attempts int, delay time.Duration, logger *slog.Logger) *RetryDoer {
	if attempts < 0 {
		attempts = 0
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryDoer{
		next:     next,
		attempts: uint64(attempts),
		delay:    delay,
		logger:   logger,
	}
}

// Do implements Doer
func (d *RetryDoer) Do(req *http.Request) (*http.Response, error) {
	if d.attempts == 0 || !isRetryable(req.Context()) {
		return d.next.Do(req)
	}

	backoff := retry.WithMaxRetries(d.attempts, retry.NewConstant(d.delay))

	var resp *http.Response
	attempt := 0
	err := retry.Do(req.Context(), backoff, func(ctx context.Context) error {
		attempt++
		r, err := rewind(req, attempt)
		if err != nil {
			return err
		}

		res, err := d.next.Do(r)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			d.logger.Warn("transport failure, retrying", "method", req.Method, "url", req.URL.Path,
				"attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		resp = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// rewind returns a request that can be sent again, with a fresh body when there is one
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 {
		return req, nil
	}
	r := req.Clone(req.Context())
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}
