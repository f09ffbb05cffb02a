package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/LavaJover/panterex-service/internal/delivery/http/jwtutil"
	"github.com/LavaJover/panterex-service/internal/delivery/http/response"
	"go.uber.org/zap"
)

type contextKey string

const (
	ContextUserID contextKey = "userID"
	ContextRole   contextKey = "role"
)

type AuthMiddleware struct {
	verifier *jwtutil.Verifier
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier *jwtutil.Verifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger.Named("auth"),
	}
}

// Authenticate rejects requests without a valid bearer token.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := am.verifier.ParseAndValidate(token)
		if err != nil {
			am.logger.Debug("token rejected", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
		ctx = context.WithValue(ctx, ContextRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after Authenticate.
func (am *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetRole(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			userID, _ := GetUserID(r.Context())
			am.logger.Warn("forbidden",
				zap.String("user_id", userID),
				zap.String("role", role),
				zap.String("path", r.URL.Path),
			)
			response.Error(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

func GetUserID(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextUserID).(string)
	return val, ok
}

func GetRole(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextRole).(string)
	return val, ok
}

func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
