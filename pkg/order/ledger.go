package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/internal/logger"
	"github.com/screa/vanity-market/pkg/store"
	"github.com/screa/vanity-market/pkg/types"
)

// Entity attributes the market indexes requests and results by
const (
	RequestAttr      = "vanity_market_request"
	RequestVersion   = "5"
	ResultAttr       = "vanity_market_order_result"
	ResultVersion    = "2"
	RequestIDAttr    = "orderId"
	TimestampAttr    = "timestamp"
	ContentTypeJSON  = "application/json"
	DefaultResultCap = 20
)

// Retention of stored entities
const (
	RequestRetention   = 30 * 24 * time.Hour
	CancelledRetention = 7 * 24 * time.Hour
	ResultRetention    = 30 * 24 * time.Hour
)

// Errors
var (
	ErrAlreadyCancelled = errors.New("request already cancelled")
	ErrNotRequest       = errors.New("entity is not a vanity request")
)

// Ledger reads and writes requests and results through a Store on behalf of
// one account.
type Ledger struct {
	store  store.Store
	owner  string
	now    func() time.Time
	logger *logger.Logger
}

// NewLedger creates a ledger acting as owner. A nil clock means time.Now.
func NewLedger(s store.Store, owner string, now func() time.Time, log *logger.Logger) *Ledger {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Ledger{store: s, owner: owner, now: now, logger: log.With("ledger")}
}

// CreateRequest validates req, stamps it and stores it. The new request ID
// is written back into req.
func (l *Ledger) CreateRequest(ctx context.Context, req *types.Request) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}
	now := l.now().UTC()
	req.Timestamp = now
	req.CancelledAt = nil

	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	id, err := l.store.Create(ctx, &store.Entity{
		Payload:     payload,
		ContentType: ContentTypeJSON,
		Attributes: map[string]string{
			RequestAttr:   RequestVersion,
			TimestampAttr: now.Format(time.RFC3339Nano),
		},
		Owner:     l.owner,
		ExpiresAt: now.Add(RequestRetention),
	})
	if err != nil {
		return "", fmt.Errorf("store request: %w", err)
	}
	req.ID = id
	l.logger.Debugf("created request %s (%d problems, %s)", id, len(req.Problems), req.Duration)
	return id, nil
}

// GetRequest loads a stored request
func (l *Ledger) GetRequest(ctx context.Context, id string) (*types.Request, error) {
	e, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeRequest(e)
}

// Requests lists the requests stored by owner, newest first. An empty owner
// lists everyone's.
func (l *Ledger) Requests(ctx context.Context, owner string) ([]types.Request, error) {
	entities, err := l.store.Query(ctx, store.Query{
		Where: map[string]string{RequestAttr: RequestVersion},
		Owner: owner,
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.Request, 0, len(entities))
	for _, e := range entities {
		req, err := decodeRequest(e)
		if err != nil {
			l.logger.Printf("skipping request %s: %v", e.Key, err)
			continue
		}
		out = append(out, *req)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// CancelRequest marks a request cancelled and shortens its retention.
func (l *Ledger) CancelRequest(ctx context.Context, id string) (*types.Request, error) {
	e, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req, err := decodeRequest(e)
	if err != nil {
		return nil, err
	}
	if req.CancelledAt != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCancelled, id)
	}
	now := l.now().UTC()
	req.CancelledAt = &now

	if e.Payload, err = json.Marshal(req); err != nil {
		return nil, err
	}
	e.Owner = l.owner
	e.ExpiresAt = now.Add(CancelledRetention)
	if err := l.store.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	l.logger.Debugf("cancelled request %s", id)
	return req, nil
}

// PublishResult stores a provider result after checking its proof against
// the request key.
func (l *Ledger) PublishResult(ctx context.Context, res *types.Result) (string, error) {
	req, err := l.GetRequest(ctx, res.RequestID)
	if err != nil {
		return "", err
	}
	pub, err := PublicKey(req)
	if err != nil {
		return "", err
	}
	if err := crypto.VerifyProof(pub, res.Proof.Salt, res.Proof.Address); err != nil {
		return "", err
	}

	if res.Timestamp.IsZero() {
		res.Timestamp = l.now().UTC()
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	id, err := l.store.Create(ctx, &store.Entity{
		Payload:     payload,
		ContentType: ContentTypeJSON,
		Attributes: map[string]string{
			ResultAttr:    ResultVersion,
			RequestIDAttr: res.RequestID,
		},
		Owner:     l.owner,
		ExpiresAt: l.now().Add(ResultRetention),
	})
	if err != nil {
		return "", fmt.Errorf("store result: %w", err)
	}
	res.ID = id
	return id, nil
}

// Results returns up to limit results published for a request. Entries that
// fail to decode are skipped. A non-positive limit means DefaultResultCap.
func (l *Ledger) Results(ctx context.Context, requestID string, limit int) ([]types.Result, error) {
	if limit <= 0 {
		limit = DefaultResultCap
	}
	entities, err := l.store.Query(ctx, store.Query{
		Where: map[string]string{ResultAttr: ResultVersion, RequestIDAttr: requestID},
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]types.Result, 0, len(entities))
	for _, e := range entities {
		var res types.Result
		if err := json.Unmarshal(e.Payload, &res); err != nil {
			l.logger.Printf("skipping result %s: %v", e.Key, err)
			continue
		}
		res.ID = e.Key
		out = append(out, res)
	}
	return out, nil
}

// RequestStatus loads a request with its results count and derives its
// status at the ledger clock.
func (l *Ledger) RequestStatus(ctx context.Context, id string) (*types.Request, types.Status, error) {
	req, err := l.GetRequest(ctx, id)
	if err != nil {
		return nil, "", err
	}
	results, err := l.Results(ctx, id, 0)
	if err != nil {
		return nil, "", err
	}
	return req, Status(req, l.now(), len(results)), nil
}

func decodeRequest(e *store.Entity) (*types.Request, error) {
	if e.Attributes[RequestAttr] != RequestVersion {
		return nil, fmt.Errorf("%w: %s", ErrNotRequest, e.Key)
	}
	var req types.Request
	if err := json.Unmarshal(e.Payload, &req); err != nil {
		return nil, fmt.Errorf("decode request %s: %w", e.Key, err)
	}
	req.ID = e.Key
	return &req, nil
}
