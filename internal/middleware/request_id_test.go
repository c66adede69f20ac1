package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware(t *testing.T) {
	existing := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"ヘッダーなし", "", false},
		{"UUIDを引き継ぐ", existing, true},
		{"不正な値は置き換える", "not-a-uuid<script>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			handler := NewRequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("%s = %q, want UUID", RequestIDHeader, got)
			}
			if got != fromCtx {
				t.Errorf("context id = %q, header = %q", fromCtx, got)
			}
			if tt.wantSame && got != tt.header {
				t.Errorf("id = %q, want %q", got, tt.header)
			}
			if !tt.wantSame && got == tt.header {
				t.Errorf("id should be regenerated")
			}
		})
	}
}
