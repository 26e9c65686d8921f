package utils

import "strings"

// minPasswordLen matches the original game's registration rule.
const minPasswordLen = 6

// IsValidAccount checks that an account or display name is non-empty
// after trimming whitespace.
func IsValidAccount(name string) bool {
	return strings.TrimSpace(name) != ""
}

// IsValidPassword checks the password length requirement.
func IsValidPassword(password string) bool {
	return len(password) >= minPasswordLen
}
