package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenAuth(t *testing.T) {
	const token = "f3b1c9e0-aaaa-bbbb-cccc-000000000000"

	invoked := false
	handler := TokenAuth(token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invoked = true
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantNext   bool
	}{
		{"missing token", "", "", http.StatusUnauthorized, false},
		{"wrong header token", "nope", "", http.StatusUnauthorized, false},
		{"wrong query token", "", "nope", http.StatusUnauthorized, false},
		{"valid header token", token, "", http.StatusOK, true},
		{"valid query token", "", token, http.StatusOK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoked = false
			target := "/lights/setColor"
			if tt.query != "" {
				target += "?auth=" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, target, nil)
			if tt.header != "" {
				req.Header.Set(AuthHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if invoked != tt.wantNext {
				t.Errorf("next invoked = %v, want %v", invoked, tt.wantNext)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Body.Len() != 0 {
				t.Errorf("401 body = %q, want empty", rec.Body.String())
			}
		})
	}
}
