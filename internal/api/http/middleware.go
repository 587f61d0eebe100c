package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"volunteerhub-backend/internal/logger"
	"volunteerhub-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "volunteer_claims"

// claimsFromContext returns the authenticated volunteer, if any.
func claimsFromContext(ctx context.Context) (*security.VolunteerClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*security.VolunteerClaims)
	return claims, ok
}

// authenticate resolves an optional Bearer token into volunteer claims on
// the request context. A missing header passes through unauthenticated; a
// present but invalid token is rejected so a broken session never silently
// downgrades to the anonymous path.
func authenticate(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				writeError(w, http.StatusUnauthorized, "malformed authorization header", "authentication_required")
				return
			}
			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired session", "authentication_required")
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAuth gates handlers that only make sense with a session.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := claimsFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required", "authentication_required")
			return
		}
		next(w, r)
	}
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
