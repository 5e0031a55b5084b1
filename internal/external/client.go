// Package external holds the outbound HTTP plumbing shared by provider
// clients. BaseClient is deliberately small: the climate lookup is the only
// remote call wayfarer makes, so it covers exactly what that call needs, a
// circuit breaker, bounded retries on 429/5xx, trace propagation, and
// AppError mapping.
package external

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"wayfarer/internal/types"

	"github.com/sony/gobreaker/v2"
)

// RetryPolicy bounds the retry loop of a BaseClient.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// BaseClient sends outbound requests through a circuit breaker with bounded
// retries. Provider clients hold one BaseClient per upstream.
type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	policy    RetryPolicy
	userAgent string
	sleepFn   func(time.Duration)
}

// BaseClientOption configures a BaseClient.
type BaseClientOption func(*BaseClient)

// WithSleepFunc replaces the inter-retry sleep, so tests run without delays.
func WithSleepFunc(fn func(time.Duration)) BaseClientOption {
	return func(c *BaseClient) {
		c.sleepFn = fn
	}
}

// WithBreaker replaces the default circuit breaker, for tests that need a
// hair-trigger breaker and for deployments sharing one breaker across
// clients.
func WithBreaker(cb *gobreaker.CircuitBreaker[*http.Response]) BaseClientOption {
	return func(c *BaseClient) {
		c.breaker = cb
	}
}

// NewBaseClient creates a BaseClient named after its upstream. The default
// breaker opens after more than 5 consecutive failures and probes again
// after 30 seconds.
func NewBaseClient(
	httpClient *http.Client,
	name string,
	policy RetryPolicy,
	userAgent string,
	opts ...BaseClientOption,
) *BaseClient {
	c := &BaseClient{
		client: httpClient,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
		policy:    policy,
		userAgent: userAgent,
		sleepFn:   time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// retryableStatus reports whether a response status warrants another attempt.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Do sends the request through the breaker, retrying 429 and 5xx responses
// up to MaxRetries times. Any other response comes back as-is with an open
// body for the caller to close; 4xx is the caller's problem, not the
// transport's. Exhausted retries and an open breaker return a types.AppError
// with an upstream error code.
//
// Retried requests are replayed via req.GetBody, which net/http populates
// for the common body types; bare GETs need no replay at all.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if traceID := types.GetRequestID(req.Context()); traceID != "" {
		req.Header.Set("X-B3-TraceId", traceID)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			c.sleepFn(c.retryDelay(attempt-1, resp))
			if resp != nil {
				resp.Body.Close()
			}
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, types.NewAppError(
						types.ErrCodeInternalUnexpected,
						"failed to rewind request body",
						bodyErr,
					)
				}
				req.Body = body
			}
		}

		resp, err = c.breaker.Execute(func() (*http.Response, error) {
			r, sendErr := c.client.Do(req)
			if sendErr != nil {
				return nil, sendErr
			}
			if retryableStatus(r.StatusCode) {
				return r, fmt.Errorf("upstream returned %d", r.StatusCode)
			}
			return r, nil
		})
		if err == nil {
			return resp, nil
		}

		// An open breaker means the upstream is already known-bad; stop
		// hammering it.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
	}

	var status int
	if resp != nil {
		status = resp.StatusCode
		resp.Body.Close()
	}
	return nil, c.failure(status, err)
}

// retryDelay picks the wait before the next attempt: the upstream's
// Retry-After seconds hint when present, otherwise exponential backoff with
// full jitter, clamped to [MinWait, MaxWait].
func (c *BaseClient) retryDelay(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			return min(time.Duration(secs)*time.Second, c.policy.MaxWait)
		}
	}

	ceiling := min(c.policy.MinWait<<attempt, c.policy.MaxWait)
	if ceiling <= c.policy.MinWait {
		return c.policy.MinWait
	}
	return c.policy.MinWait + rand.N(ceiling-c.policy.MinWait)
}

// failure maps a terminal transport failure onto the domain error surface.
func (c *BaseClient) failure(status int, err error) *types.AppError {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return types.NewAppError(
			types.ErrCodeUpstreamRateLimited,
			"circuit breaker is open; upstream service unavailable",
			err,
		)
	case status == http.StatusTooManyRequests:
		return types.NewAppError(
			types.ErrCodeUpstreamRateLimited,
			"upstream rate limit exceeded",
			err,
		)
	case status >= 500:
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("upstream returned %d after retries", status),
			err,
		)
	default:
		// Network error, DNS failure, and friends.
		return types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"upstream request failed",
			err,
		)
	}
}
