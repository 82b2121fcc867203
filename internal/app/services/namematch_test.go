package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameMatches(t *testing.T) {
	tests := []struct {
		name      string
		submitted string
		stored    string
		want      bool
	}{
		{"exact match", "Jane Doe", "Jane Doe", true},
		{"case insensitive", "jane doe", "JANE DOE", true},
		{"first name only", "Jane", "Jane Doe", true},
		{"stored first token in submitted", "Jane Doe Smith", "Jane", true},
		{"middle name added", "Jane Marie Doe", "Jane Doe", true},
		{"surrounding whitespace", "  jane doe  ", "Jane Doe", true},
		{"different person", "Robert Roe", "Jane Doe", false},
		{"empty submitted", "", "Jane Doe", false},
		{"empty stored", "Jane Doe", "", false},
		{"whitespace only", "   ", "Jane Doe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nameMatches(tt.submitted, tt.stored))
		})
	}
}
