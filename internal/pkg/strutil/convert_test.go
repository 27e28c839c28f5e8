//go:build unit
// +build unit

package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToInt64(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"123", 123},
		{"0", 0},
		{"-5", -5},
		{"", 0},
		{"abc", 0},
		{"12.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertToInt64(tt.input))
		})
	}
}

func TestConvertToInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"50", 50},
		{"", 0},
		{"not-a-number", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConvertToInt(tt.input))
		})
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"0903123456", true},
		{"123", true},
		{"", false},
		{"12a", false},
		{"+421903", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDigits(tt.input))
		})
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+421 903 123 456", "421903123456"},
		{"0903-123", "0903123"},
		{"canyon", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Digits(tt.input))
		})
	}
}
