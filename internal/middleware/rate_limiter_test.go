package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFrom(e *echo.Echo, h echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	e := echo.New()
	h := NewIPRateLimiter(1, 3).Middleware()(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serveFrom(e, h, "10.0.0.1:1000").Code, "request %d", i)
	}

	rec := serveFrom(e, h, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_004")
}

func TestRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	e := echo.New()
	h := NewIPRateLimiter(1, 1).Middleware()(okHandler)

	assert.Equal(t, http.StatusOK, serveFrom(e, h, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(e, h, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, serveFrom(e, h, "10.0.0.2:1000").Code)
}

func TestRateLimiter_PruneDropsIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(5, 5)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.allow("old")
	now = now.Add(visitorTTL + time.Second)
	limiter.allow("fresh")

	limiter.prune()

	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	limiter := NewIPRateLimiter(5, 5)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRateLimiter_ConcurrentRequests(t *testing.T) {
	e := echo.New()
	h := NewIPRateLimiter(1, 10).Middleware()(okHandler)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if serveFrom(e, h, "10.0.0.9:1000").Code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.GreaterOrEqual(t, allowed, 10)
	assert.LessOrEqual(t, allowed, 11)
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{"first forwarded address", map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"}, "192.168.1.1"},
		{"real ip header", map[string]string{"X-Real-IP": "192.168.1.2"}, "192.168.1.2"},
		{"remote address", map[string]string{}, "192.168.1.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = "192.168.1.3:12345"

			c := echo.New().NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.expected, getIP(c))
		})
	}
}
