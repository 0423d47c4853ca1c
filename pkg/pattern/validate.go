package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Validate. The estimator and matcher never return these;
// they only guard what goes into a request.
var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrNoPatterns     = errors.New("select at least one pattern")
	ErrDuplicateKind  = errors.New("pattern kind selected twice")
)

// Parameter bounds accepted on new requests.
const (
	MinRunLength     = 8
	MinLettersCount  = 32
	MinSnakeCount    = 15
	MaxSnakeCount    = AddressLength - 1
	MinPrefixLength  = 8 // including the 0x marker
	MinSuffixLength  = 6
	MaxPrefixLength  = AddressLength + 2
	MaxSuffixLength  = AddressLength
	RequiredMaskSize = AddressLength
)

// Validate checks p against the bounds a request accepts.
func (p Pattern) Validate() error {
	switch p.Type {
	case LeadingAny, TrailingAny:
		if p.Length < MinRunLength || p.Length > AddressLength {
			return invalid(p, "length must be between %d and %d", MinRunLength, AddressLength)
		}
	case LettersHeavy:
		if p.Count < MinLettersCount || p.Count > AddressLength {
			return invalid(p, "count must be between %d and %d", MinLettersCount, AddressLength)
		}
	case NumbersHeavy:
	case SnakeScoreNoCase:
		if p.Count < MinSnakeCount || p.Count > MaxSnakeCount {
			return invalid(p, "count must be between %d and %d", MinSnakeCount, MaxSnakeCount)
		}
	case UserPrefix:
		if !strings.HasPrefix(p.Specifier, "0x") {
			return invalid(p, "specifier must start with 0x")
		}
		if len(p.Specifier) < MinPrefixLength || len(p.Specifier) > MaxPrefixLength {
			return invalid(p, "specifier must be between %d and %d characters", MinPrefixLength, MaxPrefixLength)
		}
		if !isHex(p.Specifier[2:]) {
			return invalid(p, "specifier must be a valid hex string")
		}
	case UserSuffix:
		if len(p.Specifier) < MinSuffixLength || len(p.Specifier) > MaxSuffixLength {
			return invalid(p, "specifier must be between %d and %d characters", MinSuffixLength, MaxSuffixLength)
		}
		if !isHex(p.Specifier) {
			return invalid(p, "specifier must be a valid hex string")
		}
	case UserMask:
		if len(p.Specifier) != RequiredMaskSize {
			return invalid(p, "specifier must be %d characters long (don't include the 0x prefix)", RequiredMaskSize)
		}
		for i := 0; i < len(p.Specifier); i++ {
			c := p.Specifier[i]
			if c != 'x' && c != 'X' && !isHexChar(c) {
				return invalid(p, "specifier may only contain hex characters and x")
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, p.Type)
	}
	return nil
}

// Validate checks every pattern and that the set is non-empty with at most
// one pattern per kind, as a request form produces.
func (s Set) Validate() error {
	if len(s) == 0 {
		return ErrNoPatterns
	}
	seen := make(map[Kind]bool, len(s))
	for _, p := range s {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Type] {
			return fmt.Errorf("%w: %s", ErrDuplicateKind, p.Type)
		}
		seen[p.Type] = true
	}
	return nil
}

func invalid(p Pattern, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidPattern, p.Type, fmt.Sprintf(format, args...))
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexChar(s[i]) {
			return false
		}
	}
	return true
}

func isHexChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
