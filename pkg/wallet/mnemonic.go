package wallet

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// IsMnemonicValid returns whether the given words form a valid BIP39 mnemonic
// (known words and matching checksum).
func IsMnemonicValid(mnemonic []string) bool {
	if len(mnemonic) <= 0 {
		return false
	}
	return bip39.IsMnemonicValid(strings.Join(mnemonic, " "))
}

// SplitMnemonic splits a space separated mnemonic into its words, collapsing
// any extra whitespace.
func SplitMnemonic(mnemonic string) []string {
	return strings.Fields(mnemonic)
}
