package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFlightNumber(t *testing.T) {
	assert.Equal(t, "AB123", NormalizeFlightNumber(" ab123 "))
	assert.Equal(t, "AB123", NormalizeFlightNumber("AB/123"))
	assert.Equal(t, "AF1234", NormalizeFlightNumber("af 1234"))
}

func TestIsFlightNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"AB123", true},
		{"AF1", true},
		{"A123", false},
		{"AB", false},
		{"ABC123", false},
		{"AB12C", false},
		{"ab123", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFlightNumber(tt.in))
		})
	}
}

func TestAirlineCode(t *testing.T) {
	assert.Equal(t, "AF", AirlineCode("AF1234"))
	assert.Equal(t, "", AirlineCode("A"))
}
