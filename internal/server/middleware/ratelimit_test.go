package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute, setupTestLogger())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("1.2.3.4"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("1.2.3.4"), "request over the limit should be rejected")

	// Other keys have their own bucket
	assert.True(t, limiter.Allow("5.6.7.8"))
}

func TestRateLimiter_ConcurrentFirstRequests(t *testing.T) {
	const rate = 4
	limiter := NewRateLimiter(rate, time.Minute, setupTestLogger())
	defer limiter.Stop()

	// All workers hit a key with no bucket yet; every decrement must
	// land in the same bucket
	var wg sync.WaitGroup
	var allowed int32
	for i := 0; i < rate; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("9.9.9.9") {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(rate), atomic.LoadInt32(&allowed))
	assert.False(t, limiter.Allow("9.9.9.9"), "budget must be exhausted after rate concurrent requests")
}

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond, setupTestLogger())
	defer limiter.Stop()

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow("1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimitMiddleware(2, time.Minute, setupTestLogger())(next)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions/", nil)
		req.RemoteAddr = "1.2.3.4:5678"

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/transactions/", nil)
	req.RemoteAddr = "1.2.3.4:5678"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail": "Request was throttled."}`, w.Body.String())
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		expect string
	}{
		{
			name:   "remote addr",
			setup:  func(r *http.Request) { r.RemoteAddr = "10.0.0.1:1234" },
			expect: "10.0.0.1:1234",
		},
		{
			name: "x-forwarded-for single",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7")
			},
			expect: "203.0.113.7",
		},
		{
			name: "x-forwarded-for list takes first",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			},
			expect: "203.0.113.7",
		},
		{
			name: "x-real-ip",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "198.51.100.9")
			},
			expect: "198.51.100.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			assert.Equal(t, tt.expect, getClientIP(req))
		})
	}
}
