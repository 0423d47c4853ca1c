package order

import (
	"math"
	"strings"
	"time"

	"github.com/holiman/uint256"

	"github.com/screa/vanity-market/pkg/format"
	"github.com/screa/vanity-market/pkg/types"
)

// XpubEfficiency is the share of a plain key's search rate an xpub request
// gets from providers.
const XpubEfficiency = 0.1

// CreditDecimals is the token precision of credits. One credit buys one
// started minute of search.
const CreditDecimals = 18

func creditUnit() *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(CreditDecimals))
}

// ExpectedMatches is how many matches a search of length d at the given
// aggregate rate should yield against difficulty, rounded. A missing or zero
// difficulty yields zero.
func ExpectedMatches(difficulty *uint256.Int, hashesPerSecond float64, d time.Duration, keyType types.KeyType) uint64 {
	if difficulty == nil || difficulty.IsZero() || d <= 0 {
		return 0
	}
	hashes := hashesPerSecond * d.Seconds()
	if keyType == types.KeyTypeXpub {
		hashes *= XpubEfficiency
	}
	return uint64(math.Round(hashes / format.Narrow(difficulty)))
}

// RequiredCredits is the cost of a search of length d in base units.
func RequiredCredits(d time.Duration) *uint256.Int {
	if d <= 0 {
		return new(uint256.Int)
	}
	minutes := uint64(math.Ceil(d.Seconds() / 60))
	return new(uint256.Int).Mul(uint256.NewInt(minutes), creditUnit())
}

// FormatCredits renders base units as whole credits with at most two
// decimals, trailing zeros dropped.
func FormatCredits(credits *uint256.Int) string {
	whole, rem := new(uint256.Int).DivMod(credits, creditUnit(), new(uint256.Int))
	if rem.IsZero() {
		return whole.Dec()
	}
	decimals := rem.Dec()
	decimals = strings.Repeat("0", CreditDecimals-len(decimals)) + decimals
	decimals = strings.TrimRight(decimals[:2], "0")
	if decimals == "" {
		return whole.Dec()
	}
	return whole.Dec() + "." + decimals
}
