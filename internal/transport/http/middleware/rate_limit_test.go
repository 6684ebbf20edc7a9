package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeRateLimitStore struct {
	attempts map[string][]time.Time
}

func newFakeRateLimitStore() *fakeRateLimitStore {
	return &fakeRateLimitStore{attempts: make(map[string][]time.Time)}
}

func (s *fakeRateLimitStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if !at.Before(reference.Add(-window)) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *fakeRateLimitStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	count := 0
	for _, at := range s.attempts[identifier] {
		if !at.Before(reference.Add(-window)) && !at.After(reference) {
			count++
		}
	}
	return count, nil
}

func (s *fakeRateLimitStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func (s *fakeRateLimitStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	var oldest time.Time
	found := false
	for _, at := range s.attempts[identifier] {
		if at.Before(reference.Add(-window)) || at.After(reference) {
			continue
		}
		if !found || at.Before(oldest) {
			oldest = at
			found = true
		}
	}
	return oldest, found, nil
}

func newRateLimitedRouter(store RateLimitStore, rule RateLimitRule, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(store, nil).WithClock(func() time.Time { return now })

	r := gin.New()
	r.POST("/login", limiter.RateLimit(rule), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doLogin(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	rule := RateLimitRule{Name: "auth_login_ip", Limit: 3, Window: time.Minute, Identifier: ClientIPIdentifier()}
	r := newRateLimitedRouter(newFakeRateLimitStore(), rule, time.Now())

	for i := 0; i < 3; i++ {
		if w := doLogin(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	rule := RateLimitRule{Name: "auth_login_ip", Limit: 2, Window: time.Minute, Identifier: ClientIPIdentifier()}
	r := newRateLimitedRouter(newFakeRateLimitStore(), rule, time.Now())

	doLogin(r)
	doLogin(r)

	w := doLogin(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitHeadersOnAllowedRequest(t *testing.T) {
	rule := RateLimitRule{Name: "auth_login_ip", Limit: 5, Window: time.Minute, Identifier: ClientIPIdentifier()}
	r := newRateLimitedRouter(newFakeRateLimitStore(), rule, time.Now())

	w := doLogin(r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") != "5" {
		t.Fatalf("expected limit header 5, got %q", w.Header().Get("X-RateLimit-Limit"))
	}
	if w.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("expected remaining header 4, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitSkipsWhenNoStore(t *testing.T) {
	rule := RateLimitRule{Name: "auth_login_ip", Limit: 1, Window: time.Minute, Identifier: ClientIPIdentifier()}
	r := newRateLimitedRouter(nil, rule, time.Now())

	for i := 0; i < 3; i++ {
		if w := doLogin(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 without a store, got %d", i+1, w.Code)
		}
	}
}
