package middleware

import (
	"strings"

	"eduassist/internal/domain"
	"eduassist/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	TeacherEmailKey     = "teacherEmail" // Key for storing the signed-in email in fiber.Ctx locals
)

// Protected requires a valid teacher JWT and stores the teacher's email in
// the request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("Authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return domain.NewUnauthorizedError("Token is empty")
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			return err
		}

		c.Locals(TeacherEmailKey, claims.Subject)
		return c.Next()
	}
}

// TeacherEmail returns the email set by Protected, or "".
func TeacherEmail(c *fiber.Ctx) string {
	email, _ := c.Locals(TeacherEmailKey).(string)
	return email
}
