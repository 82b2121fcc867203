package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/mkaya/certportal/internal/app/models/dto"
)

// BindingErrorDetail converts a gin binding failure into the standard error
// detail, surfacing the first offending field when the failure came from
// struct validation.
func BindingErrorDetail(err error) *dto.ErrorDetail {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(first)).
			WithField(first.Field())
	}
	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return e.Field() + " must be a valid email address"
	case "min":
		return e.Field() + " must have at least " + e.Param() + " entries"
	case "training_path":
		return e.Field() + " must be PRESCHOOL or INFANT_TODDLER"
	default:
		return e.Field() + " is invalid"
	}
}
