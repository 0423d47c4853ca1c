package types

import (
	"time"

	"github.com/screa/vanity-market/pkg/pattern"
)

// KeyType says how the request's public key is encoded
type KeyType string

const (
	KeyTypePublicKey KeyType = "publicKey"
	KeyTypeXpub      KeyType = "xpub"
)

// Status of a request as shown in order lists
type Status string

const (
	StatusQueue      Status = "queue"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusExpired    Status = "expired"
)

// Request is a vanity order as stored on the ledger
type Request struct {
	ID          string      `json:"-" yaml:"id,omitempty"`
	PublicKey   string      `json:"publicKey" yaml:"publicKey"`
	KeyType     KeyType     `json:"keyType,omitempty" yaml:"keyType,omitempty"`
	Problems    pattern.Set `json:"problems" yaml:"problems"`
	Duration    string      `json:"duration" yaml:"duration"`
	Timestamp   time.Time   `json:"timestamp" yaml:"timestamp,omitempty"`
	CancelledAt *time.Time  `json:"cancelledAt" yaml:"cancelledAt,omitempty"`
}

// Proof lets anyone recompute a result address from the request key
type Proof struct {
	Salt    string `json:"salt" yaml:"salt"`       // 0x-prefixed 32-byte hex
	Address string `json:"address" yaml:"address"` // EIP-55 checksummed
}

// Result is a match published by a provider for a request
type Result struct {
	ID        string    `json:"-" yaml:"id,omitempty"`
	RequestID string    `json:"requestId" yaml:"requestId"`
	Provider  string    `json:"provider" yaml:"provider"`
	Proof     Proof     `json:"proof" yaml:"proof"`
	Attempts  int64     `json:"attempts" yaml:"attempts"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Address returns the matched address
func (r *Result) Address() string {
	return r.Proof.Address
}
