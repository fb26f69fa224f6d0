package wallet

import (
	"fmt"
	"strings"
)

const (
	// ScriptTypeWpkh is the native segwit pay-to-witness-pubkey-hash script.
	ScriptTypeWpkh = "wpkh"

	// ExternalChainIndex is the branch of receiving addresses.
	ExternalChainIndex uint32 = 0
	// InternalChainIndex is the branch of change addresses.
	InternalChainIndex uint32 = 1

	wildcard = "*"
)

// Descriptor is a ranged output descriptor of the form
// <script>(<extended key>/<path>/*).
type Descriptor struct {
	ScriptType  string
	ExtendedKey string
	// Path goes from the extended key to the parent of the wildcard.
	Path DerivationPath
}

// String returns the descriptor in its textual form.
func (d Descriptor) String() string {
	keyExpr := d.ExtendedKey
	if len(d.Path) > 0 {
		keyExpr = fmt.Sprintf("%s/%s", keyExpr, d.Path.RelativeString())
	}
	return fmt.Sprintf("%s(%s/%s)", d.ScriptType, keyExpr, wildcard)
}

// DeriveDescriptorOpts is the struct given to DeriveDescriptor method
type DeriveDescriptorOpts struct {
	ExtendedKey string
	Network     Network
	IsChange    bool
}

func (o DeriveDescriptorOpts) validate() error {
	if len(strings.TrimSpace(o.ExtendedKey)) <= 0 {
		return ErrNullExtendedKey
	}
	if !o.Network.IsValid() {
		return ErrInvalidNetwork
	}
	return nil
}

// DeriveDescriptor returns the BIP84 descriptor
// wpkh(<key>/84'/<coin type>'/0'/<chain>/*) for the given extended key, where
// chain is 1 for change addresses and 0 otherwise. The result depends only on
// the given options.
func DeriveDescriptor(opts DeriveDescriptorOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	path, err := Bip84AccountPath(opts.Network, 0)
	if err != nil {
		return "", err
	}
	chainIndex := ExternalChainIndex
	if opts.IsChange {
		chainIndex = InternalChainIndex
	}

	return Descriptor{
		ScriptType:  ScriptTypeWpkh,
		ExtendedKey: opts.ExtendedKey,
		Path:        append(path, chainIndex),
	}.String(), nil
}

// DeriveDescriptorPair returns both the external and the internal (change)
// descriptors for the given extended key.
func DeriveDescriptorPair(
	extendedKey string, network Network,
) (external, internal string, err error) {
	external, err = DeriveDescriptor(DeriveDescriptorOpts{
		ExtendedKey: extendedKey,
		Network:     network,
	})
	if err != nil {
		return "", "", err
	}
	internal, err = DeriveDescriptor(DeriveDescriptorOpts{
		ExtendedKey: extendedKey,
		Network:     network,
		IsChange:    true,
	})
	if err != nil {
		return "", "", err
	}
	return external, internal, nil
}

// ParseDescriptor parses a ranged wpkh descriptor like the ones returned by
// DeriveDescriptor. Key origins and checksums are not supported.
func ParseDescriptor(str string) (*Descriptor, error) {
	str = strings.TrimSpace(str)
	if len(str) <= 0 {
		return nil, ErrNullDescriptor
	}

	open := strings.Index(str, "(")
	if open <= 0 || !strings.HasSuffix(str, ")") {
		return nil, ErrMalformedDescriptor
	}
	scriptType := str[:open]
	if scriptType != ScriptTypeWpkh {
		return nil, ErrUnsupportedDescriptor
	}

	body := str[open+1 : len(str)-1]
	if strings.ContainsAny(body, "()[]#") {
		return nil, ErrMalformedDescriptor
	}

	elems := strings.Split(body, "/")
	if len(elems) < 2 || containsEmptyString(elems) {
		return nil, ErrMalformedDescriptor
	}

	key := strings.TrimSpace(elems[0])
	if len(key) <= 0 {
		return nil, ErrNullExtendedKey
	}

	last := strings.TrimSpace(elems[len(elems)-1])
	if last != wildcard {
		if strings.HasPrefix(last, wildcard) {
			return nil, ErrHardenedWildcard
		}
		return nil, ErrMalformedDescriptor
	}

	path := DerivationPath{}
	if pathElems := elems[1 : len(elems)-1]; len(pathElems) > 0 {
		if strings.TrimSpace(pathElems[0]) == "m" {
			return nil, ErrMalformedDescriptor
		}
		var err error
		if path, err = ParseDerivationPath(
			"m/" + strings.Join(pathElems, "/"),
		); err != nil {
			return nil, err
		}
	}

	return &Descriptor{
		ScriptType:  scriptType,
		ExtendedKey: key,
		Path:        path,
	}, nil
}
