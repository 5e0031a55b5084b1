package external

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"wayfarer/internal/types"

	"github.com/sony/gobreaker/v2"
)

// noopSleep is a sleep function that does nothing, for fast tests.
func noopSleep(time.Duration) {}

// fastPolicy keeps retry waits in the low milliseconds.
func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, MinWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
}

// newTestClient creates a BaseClient with fast retries and no real sleep.
func newTestClient(t *testing.T, policy RetryPolicy) *BaseClient {
	t.Helper()
	return NewBaseClient(
		&http.Client{Timeout: 5 * time.Second},
		"test-breaker",
		policy,
		"Wayfarer-Test/1.0",
		WithSleepFunc(noopSleep),
	)
}

func TestDo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, fastPolicy(3))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestDo_InjectsTraceIDAndUserAgent(t *testing.T) {
	var traceID, userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = r.Header.Get("X-B3-TraceId")
		userAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, fastPolicy(3))

	ctx := types.WithRequestID(context.Background(), "trace-abc-123")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	resp.Body.Close()

	if traceID != "trace-abc-123" {
		t.Errorf("expected trace ID 'trace-abc-123', got '%s'", traceID)
	}
	if userAgent != "Wayfarer-Test/1.0" {
		t.Errorf("expected test user agent, got '%s'", userAgent)
	}
}

func TestDo_RetriesOn5xxThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, RetryPolicy{MaxRetries: 3, MinWait: time.Millisecond, MaxWait: 5 * time.Millisecond})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	resp.Body.Close()

	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestDo_ExhaustedRetriesMapsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, RetryPolicy{MaxRetries: 1, MinWait: time.Millisecond, MaxWait: 5 * time.Millisecond})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	_, err := client.Do(req)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeUpstreamUnavailable {
		t.Errorf("expected %s, got %s", types.ErrCodeUpstreamUnavailable, appErr.Code)
	}
}

func TestDo_RateLimitMapsToRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, RetryPolicy{MaxRetries: 1, MinWait: time.Millisecond, MaxWait: 5 * time.Millisecond})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	_, err := client.Do(req)
	if err == nil {
		t.Fatal("expected error for persistent 429")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeUpstreamRateLimited {
		t.Errorf("expected %s, got %s", types.ErrCodeUpstreamRateLimited, appErr.Code)
	}
}

func TestDo_NonRetryable4xxReturnedAsIs(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, fastPolicy(3))

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("4xx should not error at the transport layer: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected a single attempt for a 4xx, got %d", got)
	}
}

func TestDo_OpenBreakerShortCircuits(t *testing.T) {
	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "trippy",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewBaseClient(
		&http.Client{Timeout: 5 * time.Second},
		"trippy",
		RetryPolicy{MaxRetries: 0, MinWait: time.Millisecond, MaxWait: time.Millisecond},
		"Wayfarer-Test/1.0",
		WithBreaker(breaker),
		WithSleepFunc(noopSleep),
	)

	// First call trips the breaker.
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if _, err := client.Do(req); err == nil {
		t.Fatal("expected first call to fail")
	}

	// Second call fails fast with the rate-limited code.
	req2, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	_, err := client.Do(req2)
	if err == nil {
		t.Fatal("expected open-breaker failure")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeUpstreamRateLimited {
		t.Errorf("expected %s for open breaker, got %s", types.ErrCodeUpstreamRateLimited, appErr.Code)
	}
}

func TestDo_ReplaysBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, fastPolicy(2))

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, strings.NewReader(`{"k":"v"}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected success after retry, got: %v", err)
	}
	resp.Body.Close()

	if len(bodies) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(bodies))
	}
	for i, body := range bodies {
		if body != `{"k":"v"}` {
			t.Errorf("attempt %d: body not replayed, got %q", i, body)
		}
	}
}

func TestRetryDelay_RespectsRetryAfterSeconds(t *testing.T) {
	client := newTestClient(t, RetryPolicy{MaxRetries: 3, MinWait: 100 * time.Millisecond, MaxWait: 10 * time.Second})

	resp := &http.Response{Header: http.Header{"Retry-After": []string{"2"}}}
	wait := client.retryDelay(0, resp)
	if wait != 2*time.Second {
		t.Errorf("expected 2s from Retry-After, got %v", wait)
	}
}

func TestRetryDelay_ClampedToMaxWait(t *testing.T) {
	client := newTestClient(t, RetryPolicy{MaxRetries: 10, MinWait: time.Second, MaxWait: 3 * time.Second})

	wait := client.retryDelay(8, nil)
	if wait < time.Second || wait > 3*time.Second {
		t.Errorf("expected wait in [1s, 3s], got %v", wait)
	}
}
