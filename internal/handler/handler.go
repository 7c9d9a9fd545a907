package handler

import (
	"eduassist/internal/domain"
	"eduassist/internal/logger"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// parseBody decodes the JSON body into dst and validates its struct tags.
func parseBody(c *fiber.Ctx, v *validation.Validator, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		logger.Get().Debug("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	return v.Struct(dst)
}
