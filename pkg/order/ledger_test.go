package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/store"
	"github.com/screa/vanity-market/pkg/types"
)

// Salt 1 applied to the generator key.
const (
	saltOne    = "0x0000000000000000000000000000000000000000000000000000000000000001"
	saltOneHit = "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestLedger() (*Ledger, *testClock) {
	c := &testClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewLedger(store.NewMemStore(c.now), "0xowner", c.now, nil), c
}

func newRequest() *types.Request {
	return &types.Request{
		PublicKey: testKey(),
		KeyType:   types.KeyTypePublicKey,
		Problems:  pattern.Set{pattern.Prefix("0x2B5AD5c4"), pattern.Leading(8)},
		Duration:  "5m",
	}
}

func TestLedgerRequestLifecycle(t *testing.T) {
	l, c := newTestLedger()
	ctx := context.Background()

	req := newRequest()
	id, err := l.CreateRequest(ctx, req)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if req.ID != id || !req.Timestamp.Equal(c.t) {
		t.Errorf("CreateRequest() did not stamp request: %+v", req)
	}

	got, err := l.GetRequest(ctx, id)
	if err != nil {
		t.Fatalf("GetRequest() error = %v", err)
	}
	if got.PublicKey != req.PublicKey || len(got.Problems) != 2 || got.Problems[0] != req.Problems[0] || got.Duration != "5m" {
		t.Errorf("GetRequest() = %+v", got)
	}

	_, status, err := l.RequestStatus(ctx, id)
	if err != nil || status != types.StatusQueue {
		t.Errorf("RequestStatus() = %q, %v, want queue", status, err)
	}

	c.t = c.t.Add(time.Minute)
	cancelled, err := l.CancelRequest(ctx, id)
	if err != nil {
		t.Fatalf("CancelRequest() error = %v", err)
	}
	if cancelled.CancelledAt == nil || !cancelled.CancelledAt.Equal(c.t) {
		t.Errorf("CancelledAt = %v, want %v", cancelled.CancelledAt, c.t)
	}
	if _, err := l.CancelRequest(ctx, id); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("second CancelRequest() error = %v, want ErrAlreadyCancelled", err)
	}

	_, status, err = l.RequestStatus(ctx, id)
	if err != nil || status != types.StatusCancelled {
		t.Errorf("RequestStatus() = %q, %v, want cancelled", status, err)
	}

	// Cancelled requests are kept for a week, not a month.
	c.t = c.t.Add(8 * 24 * time.Hour)
	if _, err := l.GetRequest(ctx, id); !errors.Is(err, store.ErrExpired) {
		t.Errorf("GetRequest() after retention error = %v, want ErrExpired", err)
	}
}

func TestLedgerCreateRejectsInvalid(t *testing.T) {
	l, _ := newTestLedger()
	req := newRequest()
	req.Duration = "forever"
	if _, err := l.CreateRequest(context.Background(), req); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("CreateRequest() error = %v, want ErrInvalidDuration", err)
	}
}

func TestLedgerRequestsNewestFirst(t *testing.T) {
	l, c := newTestLedger()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := l.CreateRequest(ctx, newRequest())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
		c.t = c.t.Add(time.Minute)
	}

	list, err := l.Requests(ctx, "0xowner")
	if err != nil {
		t.Fatalf("Requests() error = %v", err)
	}
	if len(list) != 3 || list[0].ID != ids[2] || list[2].ID != ids[0] {
		t.Errorf("Requests() order wrong: %v", list)
	}

	others, err := l.Requests(ctx, "0xsomeoneelse")
	if err != nil || len(others) != 0 {
		t.Errorf("Requests(other owner) = %v, %v", others, err)
	}
}

func TestLedgerPublishResult(t *testing.T) {
	l, c := newTestLedger()
	ctx := context.Background()

	id, err := l.CreateRequest(ctx, newRequest())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		result  types.Result
		wantErr error
	}{
		{
			name:   "valid proof",
			result: types.Result{RequestID: id, Provider: "local", Proof: types.Proof{Salt: saltOne, Address: saltOneHit}},
		},
		{
			name:    "wrong address",
			result:  types.Result{RequestID: id, Provider: "local", Proof: types.Proof{Salt: saltOne, Address: "0x" + strings.Repeat("0", 40)}},
			wantErr: crypto.ErrProofMismatch,
		},
		{
			name:    "bad salt",
			result:  types.Result{RequestID: id, Provider: "local", Proof: types.Proof{Salt: "0x01", Address: saltOneHit}},
			wantErr: crypto.ErrInvalidSalt,
		},
		{
			name:    "unknown request",
			result:  types.Result{RequestID: "0xmissing", Proof: types.Proof{Salt: saltOne, Address: saltOneHit}},
			wantErr: store.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.result
			_, err := l.PublishResult(ctx, &res)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PublishResult() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	results, err := l.Results(ctx, id, 0)
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	if len(results) != 1 || results[0].Address() != saltOneHit || !results[0].Timestamp.Equal(c.t) {
		t.Fatalf("Results() = %+v", results)
	}

	annotated, err := Annotate(results, newRequest().Problems)
	if err != nil {
		t.Fatal(err)
	}
	if annotated[0].Kind() != pattern.UserPrefix || annotated[0].Info.RunLength != 8 {
		t.Errorf("published result annotated as %q with %+v", annotated[0].Kind(), annotated[0].Info)
	}

	_, status, err := l.RequestStatus(ctx, id)
	if err != nil || status != types.StatusProcessing {
		t.Errorf("RequestStatus() = %q, %v, want processing", status, err)
	}
	c.t = c.t.Add(10 * time.Minute)
	if _, status, _ = l.RequestStatus(ctx, id); status != types.StatusCompleted {
		t.Errorf("RequestStatus() after window = %q, want completed", status)
	}
}
