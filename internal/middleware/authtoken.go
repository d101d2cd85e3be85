// Package middleware holds the HTTP middleware for the bridge's inbound API.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/intentlabs/bridge/internal/httputil"
)

// Where inbound requests may present the shared token.
const (
	AuthHeader     = "X-AuthToken"
	AuthQueryParam = "auth"
)

// TokenAuth gates every command route behind the process-lifetime shared
// token. The token may arrive in the X-AuthToken header or the auth query
// parameter. A missing or mismatched token is rejected with a bodyless 401
// before the request body is ever read — the response must not leak why
// authentication failed.
func TokenAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(AuthHeader)
			if presented == "" {
				presented = r.URL.Query().Get(AuthQueryParam)
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				httputil.Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
