package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/types"
)

func TestSaveLoadResults(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	req := &types.Request{
		ID:        "0xabc",
		PublicKey: "0x04aa",
		KeyType:   types.KeyTypePublicKey,
		Problems:  pattern.Set{pattern.Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678"), pattern.Numbers()},
		Duration:  "5m",
		Timestamp: created,
	}
	results := []types.Result{{
		ID:        "0xdef",
		RequestID: "0xabc",
		Provider:  "local",
		Proof:     types.Proof{Salt: "0x01", Address: "0x2B5AD5c4795c026514f8317c7a215E218DcCD6cF"},
		Attempts:  42,
		Timestamp: created.Add(time.Minute),
	}}

	path := filepath.Join(t.TempDir(), "results.yaml")
	if err := SaveResults(path, req, results); err != nil {
		t.Fatalf("SaveResults() error = %v", err)
	}
	gotReq, gotResults, err := LoadResults(path)
	if err != nil {
		t.Fatalf("LoadResults() error = %v", err)
	}

	if gotReq.ID != req.ID || len(gotReq.Problems) != 2 || gotReq.Problems[0] != req.Problems[0] || !gotReq.Timestamp.Equal(created) {
		t.Errorf("LoadResults() request = %+v", gotReq)
	}
	if gotReq.CancelledAt != nil {
		t.Errorf("CancelledAt = %v, want nil", gotReq.CancelledAt)
	}
	if len(gotResults) != 1 {
		t.Fatalf("LoadResults() returned %d results, want 1", len(gotResults))
	}
	got, want := gotResults[0], results[0]
	if got.ID != want.ID || got.RequestID != want.RequestID || got.Proof != want.Proof || got.Attempts != want.Attempts || !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("LoadResults() result = %+v, want %+v", got, want)
	}
}
