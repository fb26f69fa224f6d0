package domain

import "time"

// SessionEventType identifies what happened to a session.
type SessionEventType string

const (
	SessionCreated      SessionEventType = "SESSION_CREATED"
	SessionRestored     SessionEventType = "SESSION_RESTORED"
	SessionDisconnected SessionEventType = "SESSION_DISCONNECTED"
	WalletCleared       SessionEventType = "WALLET_CLEARED"
)

// SessionEvent is the notification emitted on every session lifecycle change.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	SessionID string           `json:"session_id,omitempty"`
	Network   string           `json:"network,omitempty"`
	Address   string           `json:"address,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// NewSessionEvent returns an event of the given type for the session, which
// can be nil for events not bound to a session.
func NewSessionEvent(eventType SessionEventType, s *Session) SessionEvent {
	event := SessionEvent{
		Type:      eventType,
		Timestamp: time.Now().Unix(),
	}
	if s != nil {
		event.SessionID = s.ID
		event.Network = s.Network.String()
		event.Address = s.Address
	}
	return event
}
