package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"taskgame_service/internal/auth"
	"taskgame_service/pkg/ctxdata"
	"taskgame_service/pkg/logging"
)

// NewAuthMiddleware validates the bearer token and places the caller's
// id and role into the request context for the service layer.
func NewAuthMiddleware(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "no authorization header", zap.String("path", r.URL.Path))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.Parse(raw)
			if err != nil {
				if logger, ok := logging.GetFromContext(ctx); ok {
					logger.Info(ctx, "invalid token", zap.String("path", r.URL.Path))
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx = ctxdata.WithUserID(ctx, claims.UserID.String())
			ctx = ctxdata.WithUserRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
