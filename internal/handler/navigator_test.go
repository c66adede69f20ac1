package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/portfolio/internal/router"
)

func TestHTTPNavigator_PushRedirectsWith303(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=x", nil)
	nav := NewHTTPNavigator(w, req, router.Default)

	if nav.Current() != router.AuthCallback {
		t.Fatalf("Current() = %v, want AuthCallback", nav.Current())
	}

	nav.Push(router.Profile)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/profile" {
		t.Errorf("Location = %q, want /profile", got)
	}
	if nav.Current() != router.Profile || !nav.Redirected() {
		t.Errorf("Current() = %v, Redirected() = %v", nav.Current(), nav.Redirected())
	}
}

func TestHTTPNavigator_OnlyFirstRedirectIsWritten(t *testing.T) {
	w := httptest.NewRecorder()
	nav := NewHTTPNavigator(w, httptest.NewRequest(http.MethodGet, "/", nil), router.Default)

	nav.External("https://accounts.google.com/o/oauth2/v2/auth")
	nav.Push(router.Home)

	if got := w.Header().Get("Location"); got != "https://accounts.google.com/o/oauth2/v2/auth" {
		t.Errorf("Location = %q", got)
	}
}

func TestHTTPNavigator_UnknownPathResolvesToHome(t *testing.T) {
	nav := NewHTTPNavigator(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil), router.Default)
	if nav.Current() != router.Home {
		t.Errorf("Current() = %v, want Home", nav.Current())
	}
}
