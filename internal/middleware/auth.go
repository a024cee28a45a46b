package middleware

import (
	"net/http"
	"strings"

	"cadence/internal/auth"
	"cadence/internal/httputil"
)

// AuthMiddleware validates the bearer token on every request and puts
// the authenticated user's id on the request context. Unauthenticated
// requests never reach the handlers.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health check stays reachable without a token
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, httputil.Identity{
				UserID: claims.GetUserID(),
				Email:  claims.Email,
				Name:   claims.Name,
			}))
		})
	}
}
