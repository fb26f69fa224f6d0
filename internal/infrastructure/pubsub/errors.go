package pubsub

import "errors"

var (
	// ErrMissingEvent ...
	ErrMissingEvent = errors.New("missing event")
	// ErrInvalidEndpoint ...
	ErrInvalidEndpoint = errors.New("invalid webhook endpoint, must be a valid URI")
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("webhook not found")
)
