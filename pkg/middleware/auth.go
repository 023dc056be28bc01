package middleware

import (
	"net/http"
	"strings"

	"gymstore/pkg/auth"
	"gymstore/pkg/logger"
)

// Authenticate attaches the caller's claims to the request context when a
// token is present. Requests without a token pass through anonymously; a
// token that fails verification is rejected with 401.
func Authenticate(tokens *auth.TokenManager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				log.Warn("Rejected request with invalid token",
					logger.REQUEST_ID, logger.RequestID(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, login again")
				return
			}

			// TODO: compare claims.CredentialVersion with the stored user so a
			// password change revokes older tokens on every route, not only
			// on ChangePassword.
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("token"))
}
