package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingPathValidator(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidators(v))

	type payload struct {
		TrainingPath string `validate:"training_path"`
	}

	assert.NoError(t, v.Struct(payload{TrainingPath: "PRESCHOOL"}))
	assert.NoError(t, v.Struct(payload{TrainingPath: "INFANT_TODDLER"}))
	assert.Error(t, v.Struct(payload{TrainingPath: "GRADUATE"}))
	assert.Error(t, v.Struct(payload{TrainingPath: "preschool"}))
	assert.Error(t, v.Struct(payload{TrainingPath: ""}))
}

func TestEmailPattern(t *testing.T) {
	assert.True(t, CompiledPatterns.Email.MatchString("jane.doe+portal@example.com"))
	assert.True(t, CompiledPatterns.Email.MatchString("j@sub.example.io"))
	assert.False(t, CompiledPatterns.Email.MatchString("not-an-email"))
	assert.False(t, CompiledPatterns.Email.MatchString("jane@"))
	assert.False(t, CompiledPatterns.Email.MatchString("@example.com"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Jane Doe"))
	assert.False(t, ValidName("J"))
	assert.False(t, ValidName(""))
}
