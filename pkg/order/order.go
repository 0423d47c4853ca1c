// Package order holds the order-side rules around the difficulty engine:
// request validation, the cost and yield model, request lifecycle and the
// ranking of published results.
package order

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/pkg/types"
)

// RequestTTL is how long after creation a request is shown as open.
const RequestTTL = 24 * time.Hour

// Errors
var (
	ErrInvalidDuration = errors.New("duration must look like 30m, 2h or 1d")
	ErrUnknownKeyType  = errors.New("key type must be publicKey or xpub")
	ErrNoProblems      = errors.New("request has no problems")
)

var durationPattern = regexp.MustCompile(`^(\d+)([mhd])$`)

// ParseDuration accepts the request shorthand (<n>m, <n>h, <n>d) and any
// Go duration string. Non-positive durations are rejected.
func ParseDuration(s string) (time.Duration, error) {
	if m := durationPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		unit := map[string]time.Duration{"m": time.Minute, "h": time.Hour, "d": 24 * time.Hour}[m[2]]
		if n <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		return time.Duration(n) * unit, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return d, nil
}

// PublicKey decodes the request key according to its key type.
func PublicKey(req *types.Request) (*secp256k1.PublicKey, error) {
	switch req.KeyType {
	case types.KeyTypePublicKey, "":
		return crypto.ParsePublicKey(req.PublicKey)
	case types.KeyTypeXpub:
		return crypto.ParseXpub(req.PublicKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyType, req.KeyType)
	}
}

// Validate checks a request before it is submitted: a usable key, a valid
// non-empty pattern set and a positive duration.
func Validate(req *types.Request) error {
	if _, err := PublicKey(req); err != nil {
		return err
	}
	if len(req.Problems) == 0 {
		return ErrNoProblems
	}
	if err := req.Problems.Validate(); err != nil {
		return err
	}
	if _, err := ParseDuration(req.Duration); err != nil {
		return err
	}
	return nil
}

// ExpiresAt is when the stored request stops being readable.
func ExpiresAt(req *types.Request) time.Time {
	return req.Timestamp.Add(RequestTTL)
}

// Status derives the request state at now from its search window and the
// number of results published so far.
func Status(req *types.Request, now time.Time, results int) types.Status {
	if req.CancelledAt != nil {
		return types.StatusCancelled
	}
	d, err := ParseDuration(req.Duration)
	if err != nil {
		d = 0
	}
	if now.Before(req.Timestamp.Add(d)) {
		if results > 0 {
			return types.StatusProcessing
		}
		return types.StatusQueue
	}
	if results > 0 {
		return types.StatusCompleted
	}
	return types.StatusExpired
}
