package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// TokenRevocations answers whether a token's jti has been denylisted.
type TokenRevocations interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ClaimsToContext copies the user ID and role out of the echo-jwt validated
// token into the request context, where services and handlers can reach them.
// Tokens whose jti has been revoked are rejected even though their signature
// is still valid.
func ClaimsToContext(revocations TokenRevocations) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			sub, ok := claims["sub"].(string)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing user id in token")
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user id format")
			}
			role, _ := claims["role"].(string)

			if revocations != nil {
				if tokenID, ok := claims["jti"].(string); ok && tokenID != "" {
					revoked, err := revocations.IsTokenRevoked(c.Request().Context(), tokenID)
					if err != nil {
						return echo.NewHTTPError(http.StatusUnauthorized, "Token validation failed")
					}
					if revoked {
						return echo.NewHTTPError(http.StatusUnauthorized, "Token revoked")
					}
				}
			}

			ctx := context.WithValue(c.Request().Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole rejects requests whose token carries none of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := GetRoleFromContext(c.Request().Context())
			if !ok || !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// GetUserIDFromContext extracts the authenticated user ID.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the authenticated role.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}
