package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/hal/contrib/internal/log"
)

// FetchError reports a request that failed after all retries were
// exhausted. It aborts gathering for the affected repository only.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Do runs call, absorbing a single rate-limit exhaustion per request by
// waiting for the advertised quota reset and retrying once. Transient
// failures (timeouts, 5xx) are retried with exponential backoff up to
// maxTransientAttempts. Anything else surfaces as a FetchError.
//
// The callback returns the response so quota headers can be observed on
// every attempt, success or failure.
func (c *Client) Do(ctx context.Context, op string, call func() (*github.Response, error)) error {
	backoff := initialBackoff
	attempt := 1
	rateRetried := false

	for {
		resp, err := call()
		if resp != nil {
			c.limits.Observe(resp)
		}
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if wait, limited := c.rateLimitWait(err); limited {
			if rateRetried {
				return &FetchError{Op: op, Err: fmt.Errorf("%w: quota still exhausted after reset wait", ErrRateLimited)}
			}
			rateRetried = true
			log.Warn("rate limit exhausted, waiting for reset", "op", op, "wait", wait.Round(time.Second))
			if err := c.wait(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if !isTransient(err) || attempt >= maxTransientAttempts {
			return &FetchError{Op: op, Err: err}
		}

		log.Debug("transient request failure, backing off", "op", op, "attempt", attempt, "backoff", backoff, "error", err)
		if err := c.wait(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
		attempt++
	}
}

// rateLimitWait reports whether err signals quota exhaustion and how
// long to wait before the retry.
func (c *Client) rateLimitWait(err error) (time.Duration, bool) {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		// One extra second so the retry lands after the reset.
		return clampWait(rle.Rate.Reset.Time.Sub(c.now()) + time.Second), true
	}

	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		wait := time.Minute
		if arle.RetryAfter != nil {
			wait = *arle.RetryAfter
		}
		return clampWait(wait), true
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusTooManyRequests {
		return clampWait(time.Minute), true
	}

	return 0, false
}

// clampWait keeps the reset wait non-negative and below the ceiling.
func clampWait(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > maxRateLimitWait {
		return maxRateLimitWait
	}
	return d
}

// isTransient reports whether the failure is worth retrying: server
// errors and network-level failures, but not 4xx responses.
func isTransient(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
