package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newTestRateLimiter(t *testing.T, cfg RateLimiterConfig) *RateLimiter {
	t.Helper()
	var buf bytes.Buffer
	rl := NewRateLimiter(cfg, newJSONLogger(&buf))
	t.Cleanup(rl.Stop)
	return rl
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{GeneralRate: 2, GeneralBurst: 5, AuthRate: 1, AuthBurst: 1, CleanupInterval: time.Minute})
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("192.0.2.1:1234"))
		if w.Code != http.StatusOK {
			t.Errorf("request %d: status = %d, want 200", i, w.Code)
		}
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{GeneralRate: 0.5, GeneralBurst: 2, AuthRate: 1, AuthBurst: 1, CleanupInterval: time.Minute})
	handler := rl.GeneralMiddleware()(okHandler())

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.1:1234"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.0.2.1:5678"))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != strconv.Itoa(2) {
		t.Errorf("Retry-After = %q, want 2", got)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("429 body should be JSON: %v", err)
	}
	if body.Code != "RATE_LIMITED" {
		t.Errorf("code = %q, want RATE_LIMITED", body.Code)
	}
}

func TestRateLimitMiddleware_IsolatesClients(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{GeneralRate: 0.1, GeneralBurst: 1, AuthRate: 1, AuthBurst: 1, CleanupInterval: time.Minute})
	handler := rl.GeneralMiddleware()(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.1:1"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("192.0.2.2:1"))
	if w.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", w.Code)
	}
	if rl.GeneralLimiterCount() != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", rl.GeneralLimiterCount())
	}
}

func TestAuthRateLimit_IndependentFromGeneralLimit(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{GeneralRate: 0.1, GeneralBurst: 1, AuthRate: 0.1, AuthBurst: 2, CleanupInterval: time.Minute})
	general := rl.GeneralMiddleware()(okHandler())
	auth := rl.AuthMiddleware()(okHandler())

	general.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.1:1"))
	w := httptest.NewRecorder()
	general.ServeHTTP(w, requestFrom("192.0.2.1:1"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("general status = %d, want 429", w.Code)
	}

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		auth.ServeHTTP(w, requestFrom("192.0.2.1:1"))
		if w.Code != http.StatusOK {
			t.Errorf("auth request %d: status = %d, want 200", i, w.Code)
		}
	}
	w = httptest.NewRecorder()
	auth.ServeHTTP(w, requestFrom("192.0.2.1:1"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("auth status = %d, want 429", w.Code)
	}
	if rl.AuthLimiterCount() != 1 {
		t.Errorf("AuthLimiterCount() = %d, want 1", rl.AuthLimiterCount())
	}
}

func TestRateLimiter_CleanupRemovesExpiredEntries(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{GeneralRate: 2, GeneralBurst: 5, AuthRate: 1, AuthBurst: 1, CleanupInterval: time.Minute})
	handler := rl.GeneralMiddleware()(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), requestFrom("192.0.2.1:1"))
	if rl.GeneralLimiterCount() != 1 {
		t.Fatal("expected one limiter entry")
	}

	rl.cleanup(time.Now().Add(time.Minute))
	if rl.GeneralLimiterCount() != 1 {
		t.Error("entry within TTL should be kept")
	}

	rl.cleanup(time.Now().Add(3 * time.Minute))
	if rl.GeneralLimiterCount() != 0 {
		t.Errorf("GeneralLimiterCount() = %d, want 0", rl.GeneralLimiterCount())
	}
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(60, 0)
	if cfg.GeneralRate != 1 || cfg.GeneralBurst != 60 {
		t.Errorf("general = %v/%d", cfg.GeneralRate, cfg.GeneralBurst)
	}
	if cfg.AuthBurst != 20 {
		t.Errorf("AuthBurst = %d, want default 20", cfg.AuthBurst)
	}

	def := DefaultRateLimiterConfig()
	if def.GeneralBurst != 120 || def.CleanupInterval != 5*time.Minute {
		t.Errorf("default = %+v", def)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig(), nil)
	rl.Stop()
	rl.Stop()
}
