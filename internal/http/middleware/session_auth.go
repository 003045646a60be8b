package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sanavida/clinic-booking-platform/internal/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// Session identifies the authenticated caller of a protected route.
type Session struct {
	UserID string
	Role   auth.Role
}

// SessionAuth enforces an HMAC-signed session token and, when roles are
// given, restricts the route to those roles.
func SessionAuth(secret string, roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "session auth disabled", http.StatusUnauthorized)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")
			subject, role, err := auth.VerifyToken(secret, tokenString)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if len(roles) > 0 && !roleAllowed(role, roles) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, Session{UserID: subject, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleAllowed(role auth.Role, allowed []auth.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// SessionFromContext returns the authenticated session if present.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
