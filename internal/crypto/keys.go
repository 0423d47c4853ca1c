package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Public key encodings accepted on requests
const (
	PublicKeyHexLen = 2 + 2*65 // 0x + uncompressed SEC1
	XpubLen         = 111
)

// Errors
var (
	ErrInvalidPublicKey = errors.New("public key must start with 0x and be 132 characters long")
	ErrInvalidXpub      = errors.New("xpub must start with xpub and be 111 characters long")
	ErrPrivateXpub      = errors.New("extended key is private")
)

// ParsePublicKey decodes a 0x-prefixed uncompressed secp256k1 key and checks
// it is on the curve.
func ParsePublicKey(s string) (*secp256k1.PublicKey, error) {
	if !strings.HasPrefix(s, "0x") || len(s) != PublicKeyHexLen {
		return nil, ErrInvalidPublicKey
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// ParseXpub decodes a BIP-32 extended public key and returns its key. The
// node itself is used as the search base; providers do not derive children.
func ParseXpub(s string) (*secp256k1.PublicKey, error) {
	if !strings.HasPrefix(s, "xpub") || len(s) != XpubLen {
		return nil, ErrInvalidXpub
	}
	key, err := hdkeychain.NewKeyFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXpub, err)
	}
	if key.IsPrivate() {
		return nil, ErrPrivateXpub
	}
	pub, err := key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXpub, err)
	}
	return pub, nil
}

// EncodePublicKey is the request form of pub.
func EncodePublicKey(pub *secp256k1.PublicKey) string {
	return hexutil.Encode(pub.SerializeUncompressed())
}
