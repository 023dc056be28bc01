package auth

import (
	"context"
	"net/http"
	"slices"

	apperrors "gymstore/pkg/errors"
	httputil "gymstore/pkg/http"
	"gymstore/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// FromContext returns the caller's claims, or nil for anonymous requests.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey{}).(*Claims)
	return c
}

func IsAdmin(ctx context.Context) bool {
	c := FromContext(ctx)
	return c != nil && c.Role == model.RoleAdmin
}

// RequireRole rejects anonymous callers with 401 and callers outside roles
// with 403. With no roles any authenticated caller is accepted.
func RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims := FromContext(r.Context())
		if claims == nil {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Not authorized, login again"))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			_ = httputil.WriteError(w, apperrors.Forbidden("You do not have permission to perform this action"))
			return
		}
		next(w, r, ps)
	}
}
