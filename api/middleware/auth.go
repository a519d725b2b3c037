package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Stylish87l/RetailFlow/api/responses"
	pkgAuth "github.com/Stylish87l/RetailFlow/pkg/auth"
	"github.com/Stylish87l/RetailFlow/pkg/config"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

// UserChecker verifies that the token's subject still exists and is active.
// The auth service implements it; nil skips the liveness check.
type UserChecker interface {
	IsUserActive(ctx context.Context, userID string) (bool, error)
}

// bearerToken pulls the token out of the Authorization header, tolerating
// a missing "Bearer " prefix. Empty string means no usable credentials.
func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, checker UserChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if checker != nil {
				active, err := checker.IsUserActive(r.Context(), claims.UserID.String())
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate user"))
					return
				}
				if !active {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			ctx = context.WithValue(ctx, ctxTenantID, claims.TenantID.String())

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
					"tenant_id":  claims.TenantID.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
