// Package store is the entity storage the market publishes requests and
// results to: opaque payloads indexed by string attributes, each with an
// owner and an expiry.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/screa/vanity-market/internal/crypto"
)

// Errors
var (
	ErrNotFound   = errors.New("entity not found")
	ErrExpired    = errors.New("entity expired")
	ErrNotOwner   = errors.New("entity owned by another account")
	ErrNoKey      = errors.New("entity key required")
	ErrNoPayload  = errors.New("entity payload required")
	ErrPastExpiry = errors.New("entity expiry must be in the future")
)

// Entity is one stored record
type Entity struct {
	Key         string
	Payload     []byte
	ContentType string
	Attributes  map[string]string
	Owner       string
	ExpiresAt   time.Time
}

func (e *Entity) clone() *Entity {
	c := *e
	c.Payload = append([]byte(nil), e.Payload...)
	c.Attributes = make(map[string]string, len(e.Attributes))
	for k, v := range e.Attributes {
		c.Attributes[k] = v
	}
	return &c
}

// Query selects live entities whose attributes contain every pair in Where.
// Owner and Limit are ignored when empty or zero.
type Query struct {
	Where map[string]string
	Owner string
	Limit int
}

func (q Query) matches(e *Entity) bool {
	if q.Owner != "" && q.Owner != e.Owner {
		return false
	}
	for k, v := range q.Where {
		if e.Attributes[k] != v {
			return false
		}
	}
	return true
}

// Store persists entities
type Store interface {
	// Create stores e under a fresh key and returns it
	Create(ctx context.Context, e *Entity) (string, error)
	// Get returns the entity under key
	Get(ctx context.Context, key string) (*Entity, error)
	// Update replaces the entity under e.Key. Only its owner may update it.
	Update(ctx context.Context, e *Entity) error
	// Query returns live entities in creation order
	Query(ctx context.Context, q Query) ([]*Entity, error)
}

type record struct {
	seq    uint64
	entity *Entity
}

// MemStore is an in-process Store
type MemStore struct {
	mu      sync.RWMutex
	records map[string]*record
	seq     uint64
	now     func() time.Time
}

// NewMemStore creates an empty store. A nil clock means time.Now.
func NewMemStore(now func() time.Time) *MemStore {
	if now == nil {
		now = time.Now
	}
	return &MemStore{records: make(map[string]*record), now: now}
}

// Create implements Store
func (s *MemStore) Create(ctx context.Context, e *Entity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(e.Payload) == 0 {
		return "", ErrNoPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !e.ExpiresAt.After(s.now()) {
		return "", ErrPastExpiry
	}
	s.seq++
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], s.seq)
	key := common.BytesToHash(crypto.Keccak256([]byte(e.Owner), e.Payload, seq[:])).Hex()

	stored := e.clone()
	stored.Key = key
	s.records[key] = &record{seq: s.seq, entity: stored}
	return key, nil
}

// Get implements Store
func (s *MemStore) Get(ctx context.Context, key string) (*Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.live(key)
	if err != nil {
		return nil, err
	}
	return rec.entity.clone(), nil
}

// Update implements Store
func (s *MemStore) Update(ctx context.Context, e *Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Key == "" {
		return ErrNoKey
	}
	if len(e.Payload) == 0 {
		return ErrNoPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.live(e.Key)
	if err != nil {
		return err
	}
	if rec.entity.Owner != e.Owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, e.Key)
	}
	if !e.ExpiresAt.After(s.now()) {
		return ErrPastExpiry
	}
	rec.entity = e.clone()
	return nil
}

// Query implements Store
func (s *MemStore) Query(ctx context.Context, q Query) ([]*Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var hits []*record
	for _, rec := range s.records {
		if rec.entity.ExpiresAt.After(now) && q.matches(rec.entity) {
			hits = append(hits, rec)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].seq < hits[j].seq })
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]*Entity, len(hits))
	for i, rec := range hits {
		out[i] = rec.entity.clone()
	}
	return out, nil
}

// live returns the record under key if it has not expired. Callers hold mu.
func (s *MemStore) live(key string) (*record, error) {
	rec, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if !rec.entity.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrExpired, key)
	}
	return rec, nil
}
