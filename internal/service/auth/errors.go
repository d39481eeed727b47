package auth

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrInvalidToken       = errors.New("verification link is invalid or already used")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// ValidationError carries one message per offending registration field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	return "validation failed: " + strings.Join(keys, ", ")
}
