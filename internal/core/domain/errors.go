package domain

import "errors"

var (
	// ErrSessionAddressMissing is returned when trying to build a session
	// without an address.
	ErrSessionAddressMissing = errors.New("session address must not be null")
)
