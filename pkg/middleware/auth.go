package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// BearerGate guards every mutating route with a static bearer token.
// Reads pass through untouched, as do POSTs to the query endpoints which are
// reads in disguise. When the server has no token configured the gate answers
// 409 so a misconfigured deployment is distinguishable from a bad client.
func BearerGate(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/query") {
				next.ServeHTTP(w, r)
				return
			}

			if token == "" {
				zap.S().Named("auth").Warn("rejecting write request, no auth token configured")
				writeJSONError(w, http.StatusConflict, "authentication is not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if subtle.ConstantTimeCompare([]byte(authHeader), []byte("Bearer "+token)) != 1 {
				writeJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
