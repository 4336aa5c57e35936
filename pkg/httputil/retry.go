package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MaxRetryAfter caps how long a server's Retry-After may hold up a call.
// Upload and mail providers answering 429 or 503 usually ask for seconds.
const MaxRetryAfter = 30 * time.Second

// RetryableError marks a transient failure that [Retry] should attempt
// again: network errors, 5xx responses and rate limiting.
type RetryableError struct {
	Err error

	// After is the wait the server asked for through Retry-After, or zero.
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, returns an error that is not a
// [RetryableError], or has been called attempts times. The wait starts at
// delay and doubles, but is never shorter than the server's Retry-After.
// A cancelled ctx ends the wait with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(retryWait(delay, re.After))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

// RetryWithBackoff retries fn three times starting at one second, the
// policy the upload store and the SendGrid transport share.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func retryWait(delay, after time.Duration) time.Duration {
	return max(delay, min(after, MaxRetryAfter))
}

// parseRetryAfter reads a Retry-After header given either as seconds or as
// an HTTP date. Missing, malformed and past values give zero.
func parseRetryAfter(h string, now time.Time) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if at, err := http.ParseTime(h); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
