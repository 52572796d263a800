package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog"
)

// APIKeyHeader is the header carrying the shared write credential
const APIKeyHeader = "X-API-Key"

// RequireAPIKey gates write endpoints behind a shared key.
// Read endpoints stay open; the data is public, only writes are gated.
func RequireAPIKey(apiKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				logger.Warn().
					Str("remote", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("Rejected request: invalid API key")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
