package descriptorwallet

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

type keychain struct {
	branch *hdkeychain.ExtendedKey
	// cursor is the index of the next address to reveal.
	cursor uint32
}

type handle struct {
	lock      *sync.Mutex
	params    *chaincfg.Params
	keychains map[ports.Keychain]*keychain
	freed     bool
}

func newHandle(
	params *chaincfg.Params, external, internal *hdkeychain.ExtendedKey,
) *handle {
	return &handle{
		lock:   &sync.Mutex{},
		params: params,
		keychains: map[ports.Keychain]*keychain{
			ports.KeychainExternal: {branch: external},
			ports.KeychainInternal: {branch: internal},
		},
	}
}

func (h *handle) NextUnusedAddress(kc ports.Keychain) (ports.AddressInfo, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	chain, err := h.getKeychain(kc)
	if err != nil {
		return ports.AddressInfo{}, err
	}
	if chain.cursor > wallet.MaxHardenedValue {
		return ports.AddressInfo{}, ErrAddressIndexExhausted
	}

	info, err := h.deriveAddress(kc, chain, chain.cursor)
	if err != nil {
		return ports.AddressInfo{}, err
	}
	chain.cursor++
	return info, nil
}

func (h *handle) PeekAddress(
	kc ports.Keychain, index uint32,
) (ports.AddressInfo, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	chain, err := h.getKeychain(kc)
	if err != nil {
		return ports.AddressInfo{}, err
	}
	if index > wallet.MaxHardenedValue {
		return ports.AddressInfo{}, ErrInvalidAddressIndex
	}
	return h.deriveAddress(kc, chain, index)
}

// Free zeroes the keychain keys. Calling it more than once is a no-op.
func (h *handle) Free() {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.freed {
		return
	}
	for _, chain := range h.keychains {
		chain.branch.Zero()
		chain.branch = nil
	}
	h.freed = true
}

func (h *handle) getKeychain(kc ports.Keychain) (*keychain, error) {
	if h.freed {
		return nil, ErrWalletFreed
	}
	chain, ok := h.keychains[kc]
	if !ok {
		return nil, ErrUnknownKeychain
	}
	return chain, nil
}

func (h *handle) deriveAddress(
	kc ports.Keychain, chain *keychain, index uint32,
) (ports.AddressInfo, error) {
	key, err := chain.branch.Derive(index)
	if err != nil {
		return ports.AddressInfo{}, err
	}
	defer key.Zero()

	pubkey, err := key.ECPubKey()
	if err != nil {
		return ports.AddressInfo{}, err
	}
	addr, err := p2wpkhAddress(pubkey, h.params)
	if err != nil {
		return ports.AddressInfo{}, err
	}

	return ports.AddressInfo{
		Index:    index,
		Address:  addr,
		Keychain: kc,
	}, nil
}

func p2wpkhAddress(pubkey *btcec.PublicKey, params *chaincfg.Params) (string, error) {
	addr, err := btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(pubkey.SerializeCompressed()), params,
	)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}
