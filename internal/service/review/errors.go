package review

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidFileKind    = errors.New("file kind must be photo or logo")
	ErrNoFile             = errors.New("submission has no such file")
)
