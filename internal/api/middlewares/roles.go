package middlewares

import (
	"database/sql"
	"net/http"
)

// RequireRole wraps a handler and ensures the caller has the given role.
func RequireRole(db *sql.DB, role string, next http.Handler) http.Handler {
	return RequireAuth(db, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		have, ok := RoleFrom(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if have != role {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
