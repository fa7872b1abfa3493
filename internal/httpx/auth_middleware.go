package httpx

import (
	"net/http"
	"strings"
)

// TokenVerifier checks a bearer token and returns the authenticated user ID
// and role. Keeping it a function keeps this package free of any token
// implementation.
type TokenVerifier func(token string) (userID, role string, err error)

func AuthMiddleware(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed Authorization header", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			userID, role, err := verify(token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			ctx := ContextWithUser(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated role does not match.
// It must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFrom(r) != role {
				JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient role for this operation", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
