package wallet

import (
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network identifies the bitcoin chain a wallet lives on.
type Network string

const (
	Mainnet  Network = "mainnet"
	Testnet  Network = "testnet"
	Testnet4 Network = "testnet4"
	Signet   Network = "signet"
	Regtest  Network = "regtest"

	// legacyMainnetName is how mainnet used to be persisted.
	legacyMainnetName = "bitcoin"
)

// SupportedNetworks lists every network accepted by ParseNetwork.
var SupportedNetworks = []Network{Mainnet, Testnet, Testnet4, Signet, Regtest}

var testnet4Params = func() chaincfg.Params {
	// testnet4 shares testnet3 address and extended key encodings.
	params := chaincfg.TestNet3Params
	params.Name = string(Testnet4)
	return params
}()

// ParseNetwork converts the given name into a Network. Besides the canonical
// names, "bitcoin" is accepted as an alias for mainnet.
func ParseNetwork(name string) (Network, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == legacyMainnetName {
		return Mainnet, nil
	}

	network := Network(name)
	if !network.IsValid() {
		return "", ErrInvalidNetwork
	}
	return network, nil
}

// IsValid returns whether the network is one of the supported ones.
func (n Network) IsValid() bool {
	for _, network := range SupportedNetworks {
		if n == network {
			return true
		}
	}
	return false
}

// CoinType returns the BIP44 coin type path segment for the network.
// Every network other than mainnet shares the test coin type 1.
func (n Network) CoinType() uint32 {
	if n == Mainnet {
		return 0
	}
	return 1
}

// Params returns the btcd chain parameters used to encode addresses and to
// check extended keys for the network. It returns nil for unknown networks.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Mainnet:
		return &chaincfg.MainNetParams
	case Testnet:
		return &chaincfg.TestNet3Params
	case Testnet4:
		return &testnet4Params
	case Signet:
		return &chaincfg.SigNetParams
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return nil
	}
}

func (n Network) String() string {
	return string(n)
}
