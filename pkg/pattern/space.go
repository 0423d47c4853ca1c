package pattern

import (
	"fmt"

	"github.com/holiman/uint256"
)

// AddressSpace returns 16^40, the number of distinct address bodies.
func AddressSpace() *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(1), 4*AddressLength)
}

// Combinations returns C(n, k) by exact multiplicative accumulation.
// Out-of-range k yields zero.
func Combinations(n, k int) *uint256.Int {
	if k < 0 || n < 0 || k > n {
		return new(uint256.Int)
	}
	if k > n-k {
		k = n - k
	}
	result := uint256.NewInt(1)
	for i := 1; i <= k; i++ {
		result.Mul(result, uint256.NewInt(uint64(n-i+1)))
		result.Div(result, uint256.NewInt(uint64(i)))
	}
	return result
}

// exactlyLetters counts bodies of length total with exactly letters
// characters in a-f: 6^k * 10^(n-k) * C(n,k).
func exactlyLetters(letters, total int) *uint256.Int {
	if letters < 0 || letters > total {
		return new(uint256.Int)
	}
	v := pow(6, letters)
	v.Mul(v, pow(10, total-letters))
	return v.Mul(v, Combinations(total, letters))
}

// snake counts bodies of length total with exactly pairs adjacent equal
// characters: 16 * 15^(n-1-p) * C(n-1,p).
func snake(pairs, total int) *uint256.Int {
	if pairs < 0 || pairs >= total {
		return new(uint256.Int)
	}
	v := uint256.NewInt(16)
	v.Mul(v, pow(15, total-1-pairs))
	return v.Mul(v, Combinations(total-1, pairs))
}

func pow(base uint64, exp int) *uint256.Int {
	if exp <= 0 {
		return uint256.NewInt(1)
	}
	return new(uint256.Int).Exp(uint256.NewInt(base), uint256.NewInt(uint64(exp)))
}

// Pow16 returns 16^exp; non-positive exponents give 1.
func Pow16(exp int) *uint256.Int {
	return pow(16, exp)
}

// Space returns how many addresses satisfy a constraint of the given kind at
// least as strictly as threshold. Thresholds outside the meaningful range
// degrade instead of failing: positional kinds fall back to the whole
// address space, aggregate kinds sum over an empty or clipped range.
func Space(kind Kind, threshold int) (*uint256.Int, error) {
	switch kind {
	case UserPrefix, UserSuffix, UserMask:
		if threshold < 1 || threshold > AddressLength {
			return AddressSpace(), nil
		}
		return pow(16, AddressLength-threshold), nil
	case LeadingAny, TrailingAny:
		if threshold < 1 || threshold > AddressLength {
			return AddressSpace(), nil
		}
		v := pow(16, AddressLength-threshold)
		return v.Mul(v, uint256.NewInt(16)), nil
	case LettersHeavy:
		total := new(uint256.Int)
		for k := max(threshold, 0); k <= AddressLength; k++ {
			total.Add(total, exactlyLetters(k, AddressLength))
		}
		return total, nil
	case NumbersHeavy:
		total := new(uint256.Int)
		for k := max(threshold, 0); k <= AddressLength; k++ {
			total.Add(total, exactlyLetters(AddressLength-k, AddressLength))
		}
		return total, nil
	case SnakeScoreNoCase:
		total := new(uint256.Int)
		for p := max(threshold, 0); p <= AddressLength-1; p++ {
			total.Add(total, snake(p, AddressLength))
		}
		return total, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// SpaceOf evaluates Space at the pattern's own threshold.
func (p Pattern) SpaceOf() (*uint256.Int, error) {
	threshold, err := p.Threshold()
	if err != nil {
		return nil, err
	}
	return Space(p.Type, threshold)
}

// EstimateWorkUnits returns the expected number of random addresses to try
// before one satisfies at least one pattern in s: 16^40 divided by the sum of
// the individual pattern spaces, truncated.
//
// Overlaps between pattern spaces are not subtracted, so for sets whose
// patterns can match the same address the result understates the true
// expectation. Recorded difficulties depend on this exact formula.
//
// An empty set yields 1; callers treat "no patterns" as undefined difficulty.
func EstimateWorkUnits(s Set) (*uint256.Int, error) {
	total := new(uint256.Int)
	for _, p := range s {
		space, err := p.SpaceOf()
		if err != nil {
			return nil, err
		}
		total.Add(total, space)
	}
	full := AddressSpace()
	if total.IsZero() {
		total = full.Clone()
	}
	return full.Div(full, total), nil
}

// ExpectedTries converts a space size into 16^40 / space, or zero for an
// empty space.
func ExpectedTries(space *uint256.Int) *uint256.Int {
	if space == nil || space.IsZero() {
		return new(uint256.Int)
	}
	full := AddressSpace()
	return full.Div(full, space)
}
