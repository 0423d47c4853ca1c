package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

const (
	// SaltLen is the size of a provider salt in bytes
	SaltLen = 32
)

// Errors
var (
	ErrInvalidSalt     = errors.New("salt must be 32 bytes of hex below the curve order")
	ErrPointAtInfinity = errors.New("salt cancels the public key")
	ErrProofMismatch   = errors.New("salt does not derive the claimed address")
)

// Deriver computes addresses of pub + salt*G. It keeps the base point and a
// Keccak state between calls, so one Deriver must not be shared between
// goroutines.
type Deriver struct {
	base    secp256k1.JacobianPoint
	hasher  hash.Hash
	xy      [64]byte
	hashBuf [32]byte
}

// NewDeriver prepares a Deriver for the given request key.
func NewDeriver(pub *secp256k1.PublicKey) *Deriver {
	d := &Deriver{hasher: sha3.NewLegacyKeccak256()}
	pub.AsJacobian(&d.base)
	return d
}

// AddressInto derives the address for salt and writes it into addr.
func (d *Deriver) AddressInto(salt *[SaltLen]byte, addr *common.Address) error {
	var k secp256k1.ModNScalar
	if overflow := k.SetBytes(salt); overflow != 0 {
		return ErrInvalidSalt
	}

	var tweak, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &tweak)
	secp256k1.AddNonConst(&d.base, &tweak, &sum)
	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		return ErrPointAtInfinity
	}
	sum.ToAffine()

	var x, y [32]byte
	sum.X.PutBytes(&x)
	sum.Y.PutBytes(&y)
	copy(d.xy[:32], x[:])
	copy(d.xy[32:], y[:])

	d.hasher.Reset()
	d.hasher.Write(d.xy[:])
	h := d.hasher.Sum(d.hashBuf[:0])
	copy(addr[:], h[12:32])
	return nil
}

// DeriveAddress is the allocation-friendly one-shot form of AddressInto.
func DeriveAddress(pub *secp256k1.PublicKey, salt [SaltLen]byte) (common.Address, error) {
	var addr common.Address
	err := NewDeriver(pub).AddressInto(&salt, &addr)
	return addr, err
}

// PubkeyToAddress is the plain Ethereum address of pub (a zero salt).
func PubkeyToAddress(pub *secp256k1.PublicKey) common.Address {
	ser := pub.SerializeUncompressed()
	return common.BytesToAddress(Keccak256(ser[1:])[12:])
}

// VerifyProof checks that salt applied to pub yields address. Address
// comparison ignores case.
func VerifyProof(pub *secp256k1.PublicKey, saltHex, address string) error {
	salt, err := ParseSalt(saltHex)
	if err != nil {
		return err
	}
	got, err := DeriveAddress(pub, salt)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(address) || got != common.HexToAddress(address) {
		return fmt.Errorf("%w: got %s, claimed %s", ErrProofMismatch, got.Hex(), address)
	}
	return nil
}

// ParseSalt decodes a 0x-optional 64-character hex salt.
func ParseSalt(s string) ([SaltLen]byte, error) {
	var salt [SaltLen]byte
	h := strings.TrimSpace(s)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	if len(h) != 2*SaltLen {
		return salt, fmt.Errorf("%w: got %d hex chars", ErrInvalidSalt, len(h))
	}
	if _, err := hex.Decode(salt[:], []byte(h)); err != nil {
		return salt, fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}
	return salt, nil
}

// SaltHex renders a salt the way results carry it.
func SaltHex(salt [SaltLen]byte) string {
	return "0x" + hex.EncodeToString(salt[:])
}

// Keccak256 calculates the keccak256 hash of the input bytes
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}
