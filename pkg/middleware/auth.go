package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/ecomstore/config"
	"github.com/shashiranjanraj/ecomstore/pkg/auth"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/response"
)

type userIDKey struct{}

// UserIDFromCtx returns the authenticated user id placed in the context by
// RequireSignIn.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// WithUserID stores an authenticated user id in ctx. Exported for tests.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequireSignIn resolves the identity token from the Authorization header.
// A missing, malformed, expired, or badly signed token rejects the request
// with 401 before the handler runs. Never a silent anonymous fall-through.
func RequireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

		if token == "" {
			response.Unauthorized(w, "Unauthorized")
			return
		}

		userID, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// RoleFinder loads the role tier for a user id from the user store.
type RoleFinder func(ctx context.Context, userID string) (int, error)

const adminRole = 1

// IsAdmin gates a route on the admin role. The role is loaded from the
// store on every request; it lives on the user document, not in the token.
//
// Denial shape follows config.AuthzStrict: the legacy storefront client
// expects 200 with success=false; strict mode answers 403.
func IsAdmin(findRole RoleFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			role, err := findRole(r.Context(), userID)
			if err != nil {
				logger.WithCtx(r.Context()).Error("role lookup failed", "user_id", userID, "error", err)
				response.ServerError(w, "")
				return
			}

			if role != adminRole {
				if config.AuthzStrict() {
					response.Forbidden(w, "Admin resource. Access denied")
				} else {
					response.Fail(w, http.StatusOK, "Admin resource. Access denied")
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
