// Package validation contains reusable field validators shared by forms
// and the auth handlers.
package validation

import (
	"fmt"
	"regexp"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]{1,150}$`)

var reservedUsernames = map[string]struct{}{
	"admin":    {},
	"auth":     {},
	"category": {},
	"health":   {},
	"login":    {},
	"metrics":  {},
	"posts":    {},
	"profile":  {},
	"signup":   {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 1-150 characters of letters, digits, and @/./+/-/_")
	}
	if _, exists := reservedUsernames[username]; exists {
		return fmt.Errorf("username is reserved")
	}
	return nil
}
