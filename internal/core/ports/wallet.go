package ports

import (
	"context"

	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

// Keychain selects one of the two address branches of a descriptor wallet.
type Keychain int

const (
	// KeychainExternal is the receiving addresses branch.
	KeychainExternal Keychain = iota
	// KeychainInternal is the change addresses branch.
	KeychainInternal
)

func (k Keychain) String() string {
	switch k {
	case KeychainExternal:
		return "external"
	case KeychainInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// AddressInfo is an address revealed by a wallet handle.
type AddressInfo struct {
	Index    uint32
	Address  string
	Keychain Keychain
}

// WalletFactory builds spending-capable wallet handles out of a pair of
// output descriptors.
type WalletFactory interface {
	Create(
		ctx context.Context, network wallet.Network,
		externalDescriptor, internalDescriptor string,
	) (WalletHandle, error)
}

// WalletHandle is a wallet instance holding key material. It must be
// released with Free before being dropped.
type WalletHandle interface {
	// NextUnusedAddress reveals the next address of the keychain and moves the
	// keychain cursor forward.
	NextUnusedAddress(keychain Keychain) (AddressInfo, error)
	// PeekAddress returns the address at the given index without touching the
	// keychain cursor.
	PeekAddress(keychain Keychain, index uint32) (AddressInfo, error)
	// Free releases the key material held by the handle.
	Free()
}
