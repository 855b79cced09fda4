package domain

import (
	"time"
	"unicode"
)

// User models a registered account. The password hash never serialises.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login"`
}

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// ValidateUsername enforces the account-name shape: at least three
// characters, letters, digits, and underscores only.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen {
		return NewFieldError("username", "username must be at least 3 characters long")
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			return NewFieldError("username", "username can only contain letters, numbers, and underscores")
		}
	}
	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r == '_':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return false
}

// ValidatePassword enforces the complexity policy applied to raw passwords
// at registration only. Stored hashes are never re-validated; a credential
// only passes through here when it changes.
func ValidatePassword(raw string) error {
	if len(raw) < minPasswordLen {
		return NewFieldError("password", "password must be at least 6 characters long")
	}
	var upper, lower, digit bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return NewFieldError("password", "password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	return nil
}
