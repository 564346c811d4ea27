package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0))
	assert.NoError(t, ValidateAmount(1500.25))
	assert.Error(t, ValidateAmount(-0.01))
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Office Depot ", "Office Depot"},
		{"Acme\x00 Corp\x1b", "Acme Corp"},
		{"line one\nline two", "line one\nline two"},
		{"\t", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeString(tt.in), "%q", tt.in)
	}
}
