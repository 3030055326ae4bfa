package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/neubistro/bistro/pkg/auth"
	"github.com/neubistro/bistro/pkg/response"
	"github.com/neubistro/bistro/pkg/session"
)

// TokenVerifier maps a session token to a user id.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

type userKey struct{}
type authErrKey struct{}

// Authenticate resolves the session cookie on every request. A valid token
// puts the user id on the context; anything else leaves the request
// anonymous and records why for RequireAuth.
func Authenticate(v TokenVerifier, opts session.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := opts.Token(r)
			if err != nil {
				ctx = context.WithValue(ctx, authErrKey{}, auth.ErrMissingToken)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				ctx = context.WithValue(ctx, authErrKey{}, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, id)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromCtx(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		reason, _ := r.Context().Value(authErrKey{}).(error)
		if reason == nil || errors.Is(reason, auth.ErrMissingToken) {
			response.Unauthorized(w, "Unauthorized")
			return
		}
		response.Unauthorized(w, "Invalid token")
	})
}

// WithUserID stores the authenticated user id on ctx.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

// UserIDFromCtx returns the authenticated user id, if any.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userKey{}).(uint)
	return id, ok && id != 0
}
