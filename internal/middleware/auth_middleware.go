package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stylehaus/closet/pkg/httperror"
)

// NewAuthMiddleware verifies the bearer token issued by the external auth
// provider and injects the authenticated owner id into the request-scoped
// user context. Handlers read it back with ctx.Value("UserID"); nothing
// downstream touches ambient auth state.
func NewAuthMiddleware(jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get("Authorization"))
		if authorization == "" {
			return unauthenticated(c, "Authorization token required")
		}

		userID, err := validateTokenAndExtractUserID(authorization, jwtSecret)
		if err != nil {
			return unauthenticated(c, err.Error())
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		userCtx = context.WithValue(userCtx, "UserID", userID)
		userCtx = context.WithValue(userCtx, "Jwt", authorization)

		c.SetUserContext(userCtx)
		return c.Next()
	}
}

func validateTokenAndExtractUserID(authHeader string, jwtSecret []byte) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("authorization header format must be Bearer {token}")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Name {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("subject (sub) claim missing")
	}

	return subject, nil
}

func unauthenticated(c *fiber.Ctx, message string) error {
	err := httperror.Unauthorized(
		"auth.unauthenticated",
		message,
		nil,
	)

	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
