package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"eduassist/internal/domain"
	"eduassist/internal/util"

	"github.com/go-playground/validator/v10"
)

var vnPhone = regexp.MustCompile(`^(0|\+?84)[0-9]{9,10}$`)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and converts failures into domain.ValidationErrors.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewInternalError("request validation failed", err)
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toValidationError(fe))
	}
	return out
}

func toValidationError(fe validator.FieldError) domain.ValidationError {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required", "notblank", "required_without":
		return domain.NewMissingFieldError(field)
	case "min", "max", "len":
		return domain.ValidationError{
			Field:   field,
			Code:    domain.CodeOutOfRange,
			Message: field + " must satisfy " + fe.Tag() + "=" + fe.Param(),
			Value:   fe.Value(),
		}
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ValidateDate parses a YYYY-MM-DD path parameter.
func (v *Validator) ValidateDate(field, value string) (time.Time, domain.ValidationErrors) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return t, nil
}

// ValidateID checks a path id is a ULID or UUID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if !isValidULID(id) && !isValidUUID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, id)}
	}
	return nil
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return util.IsULID(s)
}

func isValidUUID(s string) bool {
	return util.IsUUID(s)
}

// IsValidPhone accepts Vietnamese mobile numbers in 0xxx or 84xxx form,
// ignoring spaces, dots and dashes.
func IsValidPhone(s string) bool {
	cleaned := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(s)
	return vnPhone.MatchString(cleaned)
}
