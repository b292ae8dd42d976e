package utils

import (
	"regexp"
	"strings"
)

// Two letter airline prefix followed by the flight digits, e.g. AB123
var flightNumberPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]+$`)

// NormalizeFlightNumber uppercases the identifier and drops spaces and
// slashes, so "ab 123" and "AB/123" both become "AB123"
func NormalizeFlightNumber(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, "/", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return cleaned
}

// IsFlightNumber reports whether s is a complete flight identifier
func IsFlightNumber(s string) bool {
	return flightNumberPattern.MatchString(s)
}

// AirlineCode returns the two letter prefix of a flight number
func AirlineCode(flightNumber string) string {
	if len(flightNumber) < 2 {
		return ""
	}
	return flightNumber[:2]
}
