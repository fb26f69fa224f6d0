package application

import "errors"

var (
	// ErrInvalidInput is returned when the given descriptor inputs, networks
	// or indexes are malformed or empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrWalletConstruction is returned when the wallet factory rejects the
	// given descriptors or network.
	ErrWalletConstruction = errors.New("wallet construction failed")
	// ErrWalletNotInitialized is returned when an operation requires a live
	// wallet handle but none exists, for example after a session has been
	// restored from storage.
	ErrWalletNotInitialized = errors.New("wallet not initialized")
	// ErrStorage is returned when reading from or writing to the session
	// store fails.
	ErrStorage = errors.New("session storage failure")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrMissingStore ...
	ErrMissingStore = errors.New("missing session store")
	// ErrMissingWalletFactory ...
	ErrMissingWalletFactory = errors.New("missing wallet factory")
)
