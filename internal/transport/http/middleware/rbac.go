package middleware

import (
	"net/http"
	"strings"

	"sorha/internal/domain/auth"
	"sorha/internal/transport/http/api"
)

// RequireCapability gates a route on the role capability table. API
// clients get a JSON 401/403; browser navigation is sent back to the
// login page instead.
func RequireCapability(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				reject(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			if !auth.RoleAllowed(user.Role, capability) {
				reject(w, r, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated admits any logged-in user regardless of role.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			reject(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func reject(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	api.Fail(w, status, code, message, GetRequestID(r.Context()))
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
