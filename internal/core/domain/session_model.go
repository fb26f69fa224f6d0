package domain

import (
	"github.com/google/uuid"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

// Session is the wallet session the daemon is currently serving. A session is
// connected if and only if it holds an address, there is no separate flag
// that could disagree with it.
type Session struct {
	ID      string
	Network wallet.Network
	Address string
}

// NewSession returns a connected session for the given network and address.
func NewSession(network wallet.Network, address string) (*Session, error) {
	if !network.IsValid() {
		return nil, wallet.ErrInvalidNetwork
	}
	if len(address) <= 0 {
		return nil, ErrSessionAddressMissing
	}
	return &Session{
		ID:      uuid.New().String(),
		Network: network,
		Address: address,
	}, nil
}

// IsConnected returns whether the session holds an address.
func (s *Session) IsConnected() bool {
	return s != nil && len(s.Address) > 0
}

// ShortAddress returns the session address formatted for display.
func (s *Session) ShortAddress() string {
	if s == nil {
		return ""
	}
	return wallet.FormatAddress(s.Address)
}
