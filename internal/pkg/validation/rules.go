package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/mkaya/certportal/internal/app/models"
)

// Validation rule patterns
var (
	// Email validation pattern - stricter than the binding "email" tag for
	// addresses we will actually send mail to
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// RegisterCustomValidators installs the application's custom binding rules
// on the given validator engine.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("training_path", validateTrainingPath)
}

// validateTrainingPath accepts only the known training path identifiers
func validateTrainingPath(fl validator.FieldLevel) bool {
	return models.TrainingPath(fl.Field().String()).Valid()
}

// ValidName reports whether a submitted student name has a plausible length
// after trimming. It intentionally says nothing about characters; names come
// from enrollment records in many scripts.
func ValidName(name string) bool {
	return len(name) >= NameMinLength && len(name) <= NameMaxLength
}
