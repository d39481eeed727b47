package notification

import "errors"

var (
	ErrNotificationFailed = errors.New("notification delivery failed")
	ErrInvalidEvent       = errors.New("invalid notification event")
)
