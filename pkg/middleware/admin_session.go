package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/httpapi"
)

// SessionLookup resolves a session token. It returns an error for unknown or
// expired tokens.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (composables.AdminSession, error)
}

// SessionToken reads the admin token from the cookie or a Bearer header.
func SessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

// ProvideAdminSession puts a valid admin session into the request context.
// Requests without one pass through unchanged.
func ProvideAdminSession(lookup SessionLookup, cookieName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := lookup.Lookup(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithAdminSession(r.Context(), sess)))
		})
	}
}

// RequireAdmin rejects requests that carry no admin session.
func RequireAdmin() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := composables.UseAdminSession(r.Context()); err != nil {
				httpapi.WriteAPIError(w, r, http.StatusUnauthorized, "ADMIN_UNAUTHORIZED", "Unauthorized: admin session required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
