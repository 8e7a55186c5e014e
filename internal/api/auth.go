package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"strings"

	"bullet-hell/internal/logger"
)

// TokenAuth guards the control routes (input, reset) with a shared bearer
// token. An empty token disables the check for local play.
type TokenAuth struct {
	digest []byte // sha256 of the token, so comparisons are fixed length
}

// NewTokenAuth creates a guard for token
func NewTokenAuth(token string) *TokenAuth {
	if token == "" {
		return &TokenAuth{}
	}
	sum := sha256.Sum256([]byte(token))
	return &TokenAuth{digest: sum[:]}
}

// Enabled reports whether a token is required
func (ta *TokenAuth) Enabled() bool {
	return ta != nil && ta.digest != nil
}

// Valid checks a presented token in constant time
func (ta *TokenAuth) Valid(token string) bool {
	if !ta.Enabled() {
		return true
	}
	sum := sha256.Sum256([]byte(token))
	return hmac.Equal(sum[:], ta.digest)
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// Middleware rejects requests without a valid bearer token
func (ta *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ta.Valid(bearerToken(r)) {
			logger.Log.WithField("ip", ClientIP(r)).Warn("Control request rejected: bad token")
			RecordConnectionRejected("unauthorized")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   "unauthorized",
				"message": "Control token required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
