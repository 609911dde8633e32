package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// TokenMiddleware requires "Authorization: Bearer <token>" on every request.
// An empty token disables authentication.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	if token == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				HandleError(w, fmt.Errorf("%w: missing bearer token", ErrUnauthorized))
				return
			}

			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				HandleError(w, fmt.Errorf("%w: invalid token", ErrUnauthorized))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
