package ports

import (
	"context"

	"github.com/tdex-network/btc-session-daemon/internal/core/domain"
)

// SessionEventPublisher notifies external subscribers about session lifecycle
// changes.
type SessionEventPublisher interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
	Close()
}
