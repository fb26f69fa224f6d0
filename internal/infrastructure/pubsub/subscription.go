package pubsub

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// AnyEvent is the topic of subscriptions notified for every session event.
const AnyEvent = "*"

// Subscription is a webhook notified with a POST request every time a
// session event of the given type occurs.
type Subscription struct {
	ID       string `json:"id"`
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"-"`
}

type subscriptions []Subscription

func NewSubscription(event, endpoint, secret string) (*Subscription, error) {
	if len(event) <= 0 {
		return nil, ErrMissingEvent
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, endpoint)
	}
	id := uuid.New().String()
	return &Subscription{id, event, endpoint, secret}, nil
}

func (s *Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}

func (s *Subscription) matches(event string) bool {
	return s.Event == AnyEvent || s.Event == event
}
