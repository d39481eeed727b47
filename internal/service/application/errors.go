package application

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	ErrDuplicateSubmission = errors.New("application already submitted this month")
	ErrPersistence         = errors.New("failed to save submission")
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	return "validation failed: " + strings.Join(keys, ", ")
}
