// Package descriptorwallet implements a wallet factory able to build BIP84
// wallets out of a pair of ranged wpkh descriptors.
package descriptorwallet

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

type factory struct{}

// NewFactory returns a wallet factory that derives addresses locally from the
// extended key embedded in the descriptors.
func NewFactory() ports.WalletFactory {
	return factory{}
}

func (f factory) Create(
	_ context.Context, network wallet.Network,
	externalDescriptor, internalDescriptor string,
) (ports.WalletHandle, error) {
	params := network.Params()
	if params == nil {
		return nil, wallet.ErrInvalidNetwork
	}

	external, err := wallet.ParseDescriptor(externalDescriptor)
	if err != nil {
		return nil, fmt.Errorf("invalid external descriptor: %w", err)
	}
	internal, err := wallet.ParseDescriptor(internalDescriptor)
	if err != nil {
		return nil, fmt.Errorf("invalid internal descriptor: %w", err)
	}
	if external.ExtendedKey != internal.ExtendedKey {
		return nil, ErrDescriptorKeyMismatch
	}
	if external.String() == internal.String() {
		return nil, ErrSameDescriptor
	}

	rootKey, err := hdkeychain.NewKeyFromString(external.ExtendedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}
	defer rootKey.Zero()

	if !rootKey.IsForNet(params) {
		return nil, ErrNetworkMismatch
	}

	externalBranch, err := deriveBranch(external.ExtendedKey, external.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive external keychain: %w", err)
	}
	internalBranch, err := deriveBranch(internal.ExtendedKey, internal.Path)
	if err != nil {
		externalBranch.Zero()
		return nil, fmt.Errorf("failed to derive internal keychain: %w", err)
	}

	log.Debugf(
		"built %s wallet with keychains %s and %s",
		network, external.Path, internal.Path,
	)

	return newHandle(params, externalBranch, internalBranch), nil
}

// deriveBranch returns the parent key of the addresses of a keychain, ie. the
// extended key derived along the descriptor path. Intermediate keys are
// zeroed as soon as they are not needed anymore.
func deriveBranch(
	encodedKey string, path wallet.DerivationPath,
) (*hdkeychain.ExtendedKey, error) {
	branch, err := hdkeychain.NewKeyFromString(encodedKey)
	if err != nil {
		return nil, err
	}
	for _, step := range path {
		next, err := branch.Derive(step)
		branch.Zero()
		if err != nil {
			return nil, err
		}
		branch = next
	}
	return branch, nil
}
