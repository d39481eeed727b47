package file

import "errors"

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrUploadIO        = errors.New("failed to upload file")
	ErrFileNotFound    = errors.New("file not found")
)
