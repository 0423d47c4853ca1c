package worker

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync/atomic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/pkg/pattern"
)

// Match is a salt whose derived address satisfies one of the patterns
type Match struct {
	Salt     [crypto.SaltLen]byte
	Address  common.Address
	Pattern  pattern.Pattern
	Attempts int64
}

// Worker searches salts for one request key. A Worker is not safe for
// concurrent use; the attempt counter may be shared.
type Worker struct {
	patterns pattern.Set
	attempts *int64
	deriver  *crypto.Deriver

	// Pre-allocated buffers for performance
	salt    [crypto.SaltLen]byte
	addr    common.Address
	hexAddr [2 + 2*common.AddressLength]byte
}

// NewWorker creates a new worker instance
func NewWorker(pub *secp256k1.PublicKey, patterns pattern.Set, attempts *int64) *Worker {
	w := &Worker{
		patterns: patterns,
		attempts: attempts,
		deriver:  crypto.NewDeriver(pub),
	}
	w.hexAddr[0], w.hexAddr[1] = '0', 'x'
	return w
}

// Try derives the address of one random salt. It returns nil when the
// address matches no pattern.
func (w *Worker) Try() (*Match, error) {
	if _, err := rand.Read(w.salt[:]); err != nil {
		return nil, err
	}

	err := w.deriver.AddressInto(&w.salt, &w.addr)
	attempts := atomic.AddInt64(w.attempts, 1)
	if errors.Is(err, crypto.ErrInvalidSalt) || errors.Is(err, crypto.ErrPointAtInfinity) {
		// Salt outside the scalar field or cancelling the key; draw again.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	hex.Encode(w.hexAddr[2:], w.addr[:])
	p, err := pattern.MatchFirst(string(w.hexAddr[:]), w.patterns)
	if err != nil || p == nil {
		return nil, err
	}
	return &Match{
		Salt:     w.salt,
		Address:  w.addr,
		Pattern:  *p,
		Attempts: attempts,
	}, nil
}

// ProcessBatch tries up to batchSize salts and returns the first match
func (w *Worker) ProcessBatch(batchSize int) (*Match, error) {
	for i := 0; i < batchSize; i++ {
		m, err := w.Try()
		if err != nil || m != nil {
			return m, err
		}
	}
	return nil, nil
}
