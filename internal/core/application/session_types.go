package application

import (
	"github.com/tdex-network/btc-session-daemon/internal/core/domain"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

// SessionServiceOpts is the struct given to NewSessionService.
type SessionServiceOpts struct {
	Store         ports.SessionStore
	WalletFactory ports.WalletFactory
	// Publisher is optional, events are not dispatched if nil.
	Publisher ports.SessionEventPublisher
	// Network is the one selected before any session is created or restored.
	Network wallet.Network
	// MnemonicPassphrase, if set, is used to encrypt the mnemonic before it's
	// persisted. The mnemonic is stored in plain text otherwise.
	MnemonicPassphrase string
}

func (o SessionServiceOpts) validate() error {
	if o.Store == nil {
		return ErrMissingStore
	}
	if o.WalletFactory == nil {
		return ErrMissingWalletFactory
	}
	if !o.Network.IsValid() {
		return wallet.ErrInvalidNetwork
	}
	return nil
}

// CreateSessionOpts is the struct given to CreateSessionFromExtendedKey.
type CreateSessionOpts struct {
	ExtendedKey string
	// Network defaults to the currently selected one if empty.
	Network wallet.Network
	// Mnemonic is optional. If given, it must be a valid BIP39 mnemonic and
	// it is persisted along with the session.
	Mnemonic []string
}

// SessionInfo is a snapshot of the state of the session manager.
type SessionInfo struct {
	ID           string
	Network      wallet.Network
	Address      string
	ShortAddress string
	Connected    bool
	// CanDerive is false for sessions restored from storage, since no wallet
	// handle is rebuilt for them.
	CanDerive bool
}

func newSessionInfo(
	network wallet.Network, s *domain.Session, handle ports.WalletHandle,
) SessionInfo {
	info := SessionInfo{
		Network:   network,
		CanDerive: handle != nil,
	}
	if s.IsConnected() {
		info.ID = s.ID
		info.Network = s.Network
		info.Address = s.Address
		info.ShortAddress = s.ShortAddress()
		info.Connected = true
	}
	return info
}
