package newsletter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "user@example.com", expected: true},
		{input: "first.last+tag@shop.co.za", expected: true},
		{input: "a@b.c", expected: true},
		{input: "not-an-email", expected: false},
		{input: "user@@example.com", expected: false},
		{input: "user@example", expected: false},
		{input: "@example.com", expected: false},
		{input: "user@.com", expected: false},
		{input: "user @example.com", expected: false},
		{input: "user@example.com ", expected: false},
		{input: "user@example.", expected: false},
		{input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidEmail(tt.input))
		})
	}
}
