// Package wallet contains the deterministic building blocks of a BIP84 (native
// segwit) wallet: supported networks, derivation paths, output descriptors
// and address formatting. Nothing in here touches storage or keeps state.
package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrNullExtendedKey ...
	ErrNullExtendedKey = errors.New("extended key must not be null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullDescriptor ...
	ErrNullDescriptor = errors.New("descriptor must not be null")

	// ErrInvalidNetwork ...
	ErrInvalidNetwork = fmt.Errorf(
		"invalid network, must be one of %v", SupportedNetworks,
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidAccountIndex ...
	ErrInvalidAccountIndex = fmt.Errorf(
		"account index must be in range [0, %d]", MaxHardenedValue,
	)

	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrMalformedDescriptor ...
	ErrMalformedDescriptor = errors.New(
		"descriptor must be in the form wpkh(<key>/<path>/*)",
	)
	// ErrUnsupportedDescriptor ...
	ErrUnsupportedDescriptor = errors.New(
		"only wpkh (native segwit) descriptors are supported",
	)
	// ErrHardenedWildcard ...
	ErrHardenedWildcard = errors.New(
		"descriptor wildcard must not be hardened",
	)
)
