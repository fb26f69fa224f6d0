package ports

import "context"

// Keys of the entries persisted by the session manager.
const (
	WalletAddressKey  = "wallet_address"
	WalletNetworkKey  = "wallet_network"
	WalletMnemonicKey = "wallet_mnemonic"
)

// SessionStore is the durable key/value store where the recoverable state of
// a wallet session is kept across restarts.
type SessionStore interface {
	// Get returns the value for the given key and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set adds or replaces the entry for the given key.
	Set(ctx context.Context, key, value string) error
	// SetAll adds or replaces all the given entries atomically, if any of
	// them can't be written none is.
	SetAll(ctx context.Context, entries map[string]string) error
	// Remove deletes the given keys, missing ones are ignored.
	Remove(ctx context.Context, keys ...string) error
	// Close should be used to gracefully close the connection with the store.
	Close()
}
