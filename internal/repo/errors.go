package repo

import "errors"

var (
	ErrNotFound = errors.New("repo: record not found")

	// ErrDuplicate is returned when an insert hits a uniqueness rule, either
	// through the in-transaction check or a unique index.
	ErrDuplicate = errors.New("repo: duplicate record")

	// ErrPersistence wraps every other storage fault.
	ErrPersistence = errors.New("repo: persistence failure")
)
