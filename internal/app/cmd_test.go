package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(&bytes.Buffer{})

	want := []string{"serve", "migrate", "healthcheck", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not found: %v", name, err)
		}
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand(&bytes.Buffer{})
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != Version {
		t.Errorf("output = %q, want %q", out.String(), Version)
	}
}

func TestRun_MigrateRequiresDatabaseURL(t *testing.T) {
	setTestEnv(t)

	err := Run(context.Background(), &bytes.Buffer{}, []string{"migrate"})
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Run(migrate) error = %v, want DATABASE_URL error", err)
	}
}

func TestRun_MigrateRejectsUnknownDirection(t *testing.T) {
	setTestEnv(t)

	if err := Run(context.Background(), &bytes.Buffer{}, []string{"migrate", "sideways"}); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestRun_ServeWithMissingEnv_ReturnsError(t *testing.T) {
	setTestEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	var buf bytes.Buffer
	err := Run(context.Background(), &buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run with missing env should return error")
	}
	if !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Errorf("error = %v, should mention SESSION_SECRET", err)
	}
}

func TestRun_Healthcheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"正常", http.StatusOK, false},
		{"異常", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("path = %q, want /health", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			u, _ := url.Parse(ts.URL)
			err := Run(context.Background(), &bytes.Buffer{}, []string{"healthcheck", "--port", u.Port()})
			if (err != nil) != tt.wantErr {
				t.Errorf("healthcheck error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
