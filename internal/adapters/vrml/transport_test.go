package vrml

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	base := []Option{
		WithHTTPClient(srv.Client()),
		WithBaseURL(srv.URL),
		WithSiteURL("https://site.test"),
		WithLogger(zaptest.NewLogger(t)),
	}
	return New(append(base, opts...)...), srv
}

type payload struct {
	OK bool `json:"ok"`
}

func gameRoute(c *Client) Route {
	return c.routes.Build(http.MethodGet, routeGame, Params{"game": "EchoArena"})
}

func TestClientDo_WaitsForRateLimitThenSucceeds(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []time.Time
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, time.Now())
		n := len(seen)
		mu.Unlock()
		if n == 1 {
			w.Header().Set(headerResetAfter, "0.15")
			w.Header().Set(headerGlobal, "False")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	var out payload
	require.NoError(t, c.Do(context.Background(), gameRoute(c), &out))
	assert.True(t, out.OK)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.GreaterOrEqual(t, seen[1].Sub(seen[0]), 150*time.Millisecond)
}

func TestClientDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	out := payload{}
	err := c.Do(context.Background(), gameRoute(c), &out)

	var ex *RetriesExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, defaultMaxAttempts, ex.Attempts)
	assert.Equal(t, int32(defaultMaxAttempts), calls.Load())
	assert.False(t, out.OK)
	assert.True(t, IsRetriesExhausted(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestClientDo_RateLimitsCountTowardBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var waits []time.Duration
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set(headerResetAfter, "2.5")
		w.Header().Set(headerGlobal, "True")
		w.WriteHeader(http.StatusTooManyRequests)
	},
		WithMaxAttempts(3),
		withSleep(func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		}),
	)

	err := c.Do(context.Background(), gameRoute(c), &payload{})
	require.True(t, IsRetriesExhausted(err))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{2500 * time.Millisecond, 2500 * time.Millisecond}, waits)
}

func TestClientDo_ServiceUnavailableIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	})

	err := c.Do(context.Background(), gameRoute(c), &payload{})

	var su *ServiceUnavailableError
	require.ErrorAs(t, err, &su)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "overloaded", su.Body)
	assert.Equal(t, routeGame, su.Route.Template)
	assert.True(t, IsServiceUnavailable(err))
}

func TestClientDo_MalformedBody(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	err := c.Do(context.Background(), gameRoute(c), &payload{})
	assert.True(t, IsMalformed(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientDo_RecoversAfterServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 4 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	var out payload
	require.NoError(t, c.Do(context.Background(), gameRoute(c), &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(4), calls.Load())
}

func TestResetAfter(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	assert.Zero(t, resetAfter(h))

	h.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, resetAfter(h))

	h.Set(headerResetAfter, "0.250")
	assert.Equal(t, 250*time.Millisecond, resetAfter(h))

	h.Set(headerResetAfter, "soon")
	assert.Equal(t, 3*time.Second, resetAfter(h))
}
