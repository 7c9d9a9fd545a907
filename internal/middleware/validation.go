package middleware

import (
	"strconv"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedDateKey  = "validated_date"
	ValidatedIDKey    = "validated_id"
	ValidatedIndexKey = "validated_index"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateDateParam parses a YYYY-MM-DD path parameter.
func (vm *ValidationMiddleware) ValidateDateParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, errs := vm.validator.ValidateDate(name, c.Params(name))
		if len(errs) > 0 {
			return errs // This will be handled by ErrorHandler middleware
		}
		c.Locals(ValidatedDateKey, date)
		return c.Next()
	}
}

// ValidateIDParam accepts a ULID or UUID path parameter.
func (vm *ValidationMiddleware) ValidateIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(name)
		if errs := vm.validator.ValidateID(name, id); len(errs) > 0 {
			return errs
		}
		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}

// ValidateIndexParam parses a non-negative integer path parameter.
func (vm *ValidationMiddleware) ValidateIndexParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params(name)
		index, err := strconv.Atoi(raw)
		if err != nil || index < 0 {
			return domain.ValidationErrors{domain.NewInvalidFormatError(name, raw)}
		}
		c.Locals(ValidatedIndexKey, index)
		return c.Next()
	}
}

// ValidatedDate returns the date stored by ValidateDateParam.
func ValidatedDate(c *fiber.Ctx) time.Time {
	d, _ := c.Locals(ValidatedDateKey).(time.Time)
	return d
}

func ValidatedID(c *fiber.Ctx) string {
	id, _ := c.Locals(ValidatedIDKey).(string)
	return id
}

func ValidatedIndex(c *fiber.Ctx) int {
	i, _ := c.Locals(ValidatedIndexKey).(int)
	return i
}
