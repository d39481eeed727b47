package email

import "errors"

var (
	// ErrDisabled is returned by Send when outbound mail is switched off.
	ErrDisabled = errors.New("email: delivery disabled")

	// ErrInvalidMessage marks messages or settings that can never be sent.
	// Retrying does not help.
	ErrInvalidMessage = errors.New("email: invalid message")

	// ErrSend wraps transport failures, which may be transient.
	ErrSend = errors.New("email: send failed")
)
