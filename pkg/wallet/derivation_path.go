package wallet

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

const (
	// MaxHardenedValue is the max value for hardened indexes of BIP32
	// derivation paths
	MaxHardenedValue = math.MaxUint32 - hdkeychain.HardenedKeyStart

	// Bip84Purpose is the purpose segment of native segwit derivation paths.
	Bip84Purpose = 84
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet path
type DerivationPath []uint32

// Bip84AccountPath returns the relative path 84'/<coin type>'/<account>' for
// the given network and account index.
func Bip84AccountPath(network Network, account uint32) (DerivationPath, error) {
	if !network.IsValid() {
		return nil, ErrInvalidNetwork
	}
	if account > MaxHardenedValue {
		return nil, ErrInvalidAccountIndex
	}
	return DerivationPath{
		hdkeychain.HardenedKeyStart + Bip84Purpose,
		hdkeychain.HardenedKeyStart + network.CoinType(),
		hdkeychain.HardenedKeyStart + account,
	}, nil
}

// ParseDerivationPath converts a derivation path string to the
// internal binary representation. Hardened components can be marked either
// with the "'" or the "h" suffix.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	var path DerivationPath

	elems := strings.Split(strPath, "/")
	switch {
	case strPath == "":
		return nil, ErrNullDerivationPath

	case containsEmptyString(elems):
		return nil, ErrMalformedDerivationPath
	case len(elems) < 2:
		return nil, ErrMalformedDerivationPath

	case len(elems) > 1:
		if strings.TrimSpace(elems[0]) == "m" {
			elems = elems[1:]
		}

	default:
		return nil, ErrInvalidDerivationPath
	}

	for _, elem := range elems {
		value, err := parsePathElem(elem)
		if err != nil {
			return nil, err
		}
		path = append(path, value)
	}

	return path, nil
}

// String converts a binary derivation path to its canonical absolute
// representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}
	return "m/" + path.RelativeString()
}

// RelativeString is like String but without the leading "m/", as used inside
// output descriptors.
func (path DerivationPath) RelativeString() string {
	elems := make([]string, 0, len(path))
	for _, component := range path {
		if component >= hdkeychain.HardenedKeyStart {
			elems = append(
				elems, fmt.Sprintf("%d'", component-hdkeychain.HardenedKeyStart),
			)
			continue
		}
		elems = append(elems, fmt.Sprintf("%d", component))
	}
	return strings.Join(elems, "/")
}

func parsePathElem(elem string) (uint32, error) {
	elem = strings.TrimSpace(elem)
	var value uint32

	if strings.HasSuffix(elem, "'") || strings.HasSuffix(elem, "h") {
		value = hdkeychain.HardenedKeyStart
		elem = strings.TrimSpace(elem[:len(elem)-1])
	}

	// use big int for convertion
	bigval, ok := new(big.Int).SetString(elem, 0)
	if !ok {
		return 0, fmt.Errorf("invalid elem '%s' in path", elem)
	}

	max := math.MaxUint32 - value
	if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
		if value == 0 {
			return 0, fmt.Errorf("elem %v must be in range [0, %d]", bigval, max)
		}
		return 0, fmt.Errorf("elem %v must be in hardened range [0, %d]", bigval, max)
	}
	return value + uint32(bigval.Uint64()), nil
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}
