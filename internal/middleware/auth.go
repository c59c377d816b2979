package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/dkochetov/storefront/internal/entities"
	"github.com/dkochetov/storefront/pkg/utils"
)

type TokenVerifier interface {
	VerifyToken(token string) (entities.Principal, error)
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p entities.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (entities.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(entities.Principal)
	return p, ok
}

type Auth struct {
	verifier TokenVerifier
}

func NewAuth(verifier TokenVerifier) *Auth {
	return &Auth{verifier: verifier}
}

// Authenticate requires a valid bearer token and places the caller identity
// into the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			utils.WriteError(w, "authorization required", http.StatusUnauthorized)
			return
		}

		principal, err := a.verifier.VerifyToken(token)
		if err != nil {
			utils.WriteError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// Restrict allows only callers whose role is in roles. Must run after
// Authenticate.
func (a *Auth) Restrict(roles ...entities.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				utils.WriteError(w, "authorization required", http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, principal.Role) {
				utils.WriteError(w, "access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
