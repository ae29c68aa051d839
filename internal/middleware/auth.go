package middleware

import (
	"net/http"

	"github.com/shothost/shothost/internal/ctxkeys"
	"github.com/shothost/shothost/internal/service"
)

// SessionAuth resolves the Authorization header against the session store
// and adds the principal to the request context if valid. Requests without
// a resolvable session continue unauthenticated.
func SessionAuth(resolver *service.CredentialResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization := r.Header.Get("Authorization")
			if authorization == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.ResolveSession(authorization)
			if err != nil {
				// Invalid or malformed credential, continue without auth.
				// Protected routes reject the request in RequireUser.
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser ensures the request carries an authenticated session
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := ctxkeys.Principal(r.Context())
		if principal == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}

		next.ServeHTTP(w, r)
	}
}
