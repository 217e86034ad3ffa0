package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	for _, name := range []string{"writer", "a", "jo.hn_doe", "user@host", "plus+minus-"} {
		assert.NoError(t, ValidateUsername(name), name)
	}

	for _, name := range []string{"", "has space", "emoji🙂", strings.Repeat("a", 151)} {
		assert.Error(t, ValidateUsername(name), name)
	}

	for _, name := range []string{"admin", "posts", "profile", "login"} {
		assert.Error(t, ValidateUsername(name), "%q is reserved", name)
	}
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"w@example.com", "first.last+tag@sub.example.co"} {
		assert.NoError(t, ValidateEmail(email), email)
	}

	for _, email := range []string{"", "no-at.example.com", "a@b", "a b@example.com"} {
		assert.Error(t, ValidateEmail(email), email)
	}

	long := strings.Repeat("a", 250) + "@e.com"
	assert.Error(t, ValidateEmail(long), "overlong address")
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("sturdy-pass1"))

	tests := map[string]string{
		"too short":      "ab1",
		"letters only":   "justletters",
		"digits only":    "123456789",
		"overlong":       strings.Repeat("a1", 70),
		"empty password": "",
	}
	for name, password := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidatePassword(password))
		})
	}
}
