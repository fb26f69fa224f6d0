package descriptorwallet

import (
	"errors"
	"fmt"

	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

var (
	// ErrDescriptorKeyMismatch is returned if the external and internal
	// descriptors are not built on the same extended key.
	ErrDescriptorKeyMismatch = errors.New(
		"external and internal descriptors must share the same extended key",
	)
	// ErrSameDescriptor ...
	ErrSameDescriptor = errors.New(
		"external and internal descriptors must not be equal",
	)
	// ErrInvalidExtendedKey ...
	ErrInvalidExtendedKey = errors.New("descriptor extended key is not valid")
	// ErrNetworkMismatch is returned if the descriptor extended key is encoded
	// for a network other than the requested one.
	ErrNetworkMismatch = errors.New(
		"descriptor extended key does not belong to the requested network",
	)
	// ErrInvalidAddressIndex ...
	ErrInvalidAddressIndex = fmt.Errorf(
		"address index must be in range [0, %d]", wallet.MaxHardenedValue,
	)
	// ErrAddressIndexExhausted is returned once all non-hardened addresses of
	// a keychain have been revealed.
	ErrAddressIndexExhausted = errors.New("keychain addresses exhausted")
	// ErrUnknownKeychain ...
	ErrUnknownKeychain = errors.New("unknown keychain")
	// ErrWalletFreed is returned by any method of a handle released with Free.
	ErrWalletFreed = errors.New("wallet has been freed")
)
