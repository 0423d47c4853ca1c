// Package pattern models the vanity address constraints a request can carry
// and estimates how hard they are to satisfy.
//
// Every operation is a pure function of its inputs. Space sizes and rarities
// are exact integers over the 16^40 address space and are carried in
// 256-bit unsigned integers.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength is the number of hex characters in an address body.
const AddressLength = 40

// Errors
var (
	ErrUnknownKind    = errors.New("unknown pattern kind")
	ErrInvalidAddress = errors.New("address must be 40 hex characters")
)

// Kind tags a Pattern variant. The values are the ones stored in request
// payloads.
type Kind string

const (
	LeadingAny       Kind = "leading-any"
	TrailingAny      Kind = "trailing-any"
	LettersHeavy     Kind = "letters-heavy"
	NumbersHeavy     Kind = "numbers-heavy"
	SnakeScoreNoCase Kind = "snake-score-no-case"
	UserPrefix       Kind = "user-prefix"
	UserSuffix       Kind = "user-suffix"
	UserMask         Kind = "user-mask"
)

// Kinds lists every known kind in display order.
var Kinds = []Kind{
	LeadingAny,
	TrailingAny,
	LettersHeavy,
	NumbersHeavy,
	SnakeScoreNoCase,
	UserPrefix,
	UserSuffix,
	UserMask,
}

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Label returns the short name shown next to a result.
func (k Kind) Label() string {
	switch k {
	case LeadingAny:
		return "Leading"
	case TrailingAny:
		return "Trailing"
	case LettersHeavy:
		return "Letters heavy"
	case NumbersHeavy:
		return "Numbers only"
	case SnakeScoreNoCase:
		return "Snake score"
	case UserPrefix:
		return "Custom prefix"
	case UserSuffix:
		return "Custom suffix"
	case UserMask:
		return "Custom mask"
	default:
		return "Unknown"
	}
}

// Pattern is a single constraint ("problem") on an address. Type selects the
// variant; only the parameter belonging to that variant is meaningful:
//
//	leading-any, trailing-any          Length
//	letters-heavy, snake-score-no-case Count
//	user-prefix, user-suffix, user-mask Specifier
//	numbers-heavy                      none
type Pattern struct {
	Type      Kind   `json:"type" yaml:"type"`
	Length    int    `json:"length,omitempty" yaml:"length,omitempty"`
	Count     int    `json:"count,omitempty" yaml:"count,omitempty"`
	Specifier string `json:"specifier,omitempty" yaml:"specifier,omitempty"`
}

// Set is an ordered list of patterns. Order decides match priority only.
type Set []Pattern

func Leading(length int) Pattern  { return Pattern{Type: LeadingAny, Length: length} }
func Trailing(length int) Pattern { return Pattern{Type: TrailingAny, Length: length} }
func Letters(count int) Pattern   { return Pattern{Type: LettersHeavy, Count: count} }
func Numbers() Pattern            { return Pattern{Type: NumbersHeavy} }
func Snake(count int) Pattern     { return Pattern{Type: SnakeScoreNoCase, Count: count} }
func Prefix(spec string) Pattern  { return Pattern{Type: UserPrefix, Specifier: spec} }
func Suffix(spec string) Pattern  { return Pattern{Type: UserSuffix, Specifier: spec} }
func Mask(spec string) Pattern    { return Pattern{Type: UserMask, Specifier: spec} }

// Defaults returns the patterns pre-filled on a new order form.
func Defaults() Set {
	return Set{
		Leading(8),
		Trailing(8),
		Letters(32),
		Numbers(),
		Snake(15),
		Prefix("0xC0FFEE00"),
		Suffix("00BADD1E"),
		Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678"),
	}
}

// String renders the pattern the way order cards list it.
func (p Pattern) String() string {
	switch p.Type {
	case LeadingAny, TrailingAny:
		return fmt.Sprintf("%s: %d", p.Type.Label(), p.Length)
	case LettersHeavy, SnakeScoreNoCase:
		return fmt.Sprintf("%s: %d", p.Type.Label(), p.Count)
	case NumbersHeavy:
		return p.Type.Label()
	case UserPrefix, UserSuffix, UserMask:
		return fmt.Sprintf("%s: %s", p.Type.Label(), p.Specifier)
	default:
		return fmt.Sprintf("%s (%s)", p.Type.Label(), string(p.Type))
	}
}

// Threshold extracts the strictness parameter the space model is evaluated at.
func (p Pattern) Threshold() (int, error) {
	switch p.Type {
	case UserPrefix:
		return len(strip0x(p.Specifier)), nil
	case UserSuffix:
		return len(p.Specifier), nil
	case UserMask:
		return fixedMaskChars(maskBody(p.Specifier)), nil
	case LeadingAny, TrailingAny:
		return p.Length, nil
	case LettersHeavy, SnakeScoreNoCase:
		return p.Count, nil
	case NumbersHeavy:
		return AddressLength, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, p.Type)
	}
}

// Kinds returns the distinct kinds in the set, first occurrence first.
func (s Set) Kinds() []Kind {
	seen := make(map[Kind]bool, len(s))
	var kinds []Kind
	for _, p := range s {
		if !seen[p.Type] {
			seen[p.Type] = true
			kinds = append(kinds, p.Type)
		}
	}
	return kinds
}

// Body returns the lowercase 40-character body of address. The 0x marker is
// optional.
func Body(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return strings.ToLower(strip0x(address)), nil
}

func strip0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// maskBody drops the marker from a 42-character mask. A bare 40-character
// mask may legitimately start with "0x" as fixed '0' and wildcard.
func maskBody(spec string) string {
	if len(spec) == AddressLength+2 {
		spec = strip0x(spec)
	}
	return strings.ToLower(spec)
}

func fixedMaskChars(mask string) int {
	n := 0
	for i := 0; i < len(mask); i++ {
		if mask[i] != 'x' {
			n++
		}
	}
	return n
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'f'
}
