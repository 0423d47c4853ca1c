package pattern

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Matches reports whether address satisfies p. Comparisons ignore case.
func (p Pattern) Matches(address string) (bool, error) {
	body, err := Body(address)
	if err != nil {
		return false, err
	}
	return p.matchesBody(body)
}

func (p Pattern) matchesBody(body string) (bool, error) {
	switch p.Type {
	case LeadingAny:
		return p.Length <= AddressLength && leadingRun(body) >= p.Length, nil
	case TrailingAny:
		return p.Length <= AddressLength && trailingRun(body) >= p.Length, nil
	case LettersHeavy:
		return countLetters(body) >= p.Count, nil
	case NumbersHeavy:
		return countLetters(body) == 0, nil
	case SnakeScoreNoCase:
		return snakePairs(body) >= p.Count, nil
	case UserPrefix:
		return strings.HasPrefix(body, strings.ToLower(strip0x(p.Specifier))), nil
	case UserSuffix:
		return strings.HasSuffix(body, strings.ToLower(p.Specifier)), nil
	case UserMask:
		mask := maskBody(p.Specifier)
		for i := 0; i < len(mask); i++ {
			if mask[i] == 'x' {
				continue
			}
			if i >= len(body) || mask[i] != body[i] {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, p.Type)
	}
}

// MatchFirst returns the first pattern in s that address satisfies, or nil
// when none does. Earlier patterns win over later ones regardless of rarity.
func MatchFirst(address string, s Set) (*Pattern, error) {
	body, err := Body(address)
	if err != nil {
		return nil, err
	}
	for i := range s {
		ok, err := s[i].matchesBody(body)
		if err != nil {
			return nil, err
		}
		if ok {
			p := s[i]
			return &p, nil
		}
	}
	return nil, nil
}

// MatchInfo describes how rare one realised match is.
type MatchInfo struct {
	// Rarity is the expected number of tries to find an address at least
	// this extreme. Zero means the match is trivial or undefined.
	Rarity  *uint256.Int
	Summary string
	// RunLength is the realised count of fixed or repeated characters for
	// positional kinds; Rarity is 16^RunLength. Zero for aggregate kinds.
	RunLength int
}

// RarityOf measures the match strength actually realised by address, which
// may exceed what p demands. Positional kinds report 16^n for n matched
// characters; aggregate kinds report the expected tries at the observed
// letter, digit or pair count.
func RarityOf(address string, p Pattern) (*MatchInfo, error) {
	body, err := Body(address)
	if err != nil {
		return nil, err
	}
	switch p.Type {
	case UserPrefix:
		prefix := strings.ToLower(strip0x(p.Specifier))
		n := commonPrefix(body, prefix)
		return positional(n, fmt.Sprintf("%d char prefix (%s)", n, strings.ToUpper(prefix[:n]))), nil
	case UserSuffix:
		suffix := strings.ToLower(p.Specifier)
		n := commonSuffix(body, suffix)
		return positional(n, fmt.Sprintf("%d char suffix (%s)", n, strings.ToUpper(suffix[len(suffix)-n:]))), nil
	case UserMask:
		mask := maskBody(p.Specifier)
		n := 0
		for i := 0; i < len(mask) && i < len(body); i++ {
			if mask[i] != 'x' && mask[i] == body[i] {
				n++
			}
		}
		return positional(n, fmt.Sprintf("%d mask characters fixed", n)), nil
	case LeadingAny:
		n := leadingRun(body)
		return positional(n, fmt.Sprintf("%d leading %s", n, strings.ToUpper(body[:1]))), nil
	case TrailingAny:
		n := trailingRun(body)
		return positional(n, fmt.Sprintf("%d trailing %s", n, strings.ToUpper(body[len(body)-1:]))), nil
	case LettersHeavy:
		n := countLetters(body)
		return aggregate(LettersHeavy, n, fmt.Sprintf("%d letters", n))
	case NumbersHeavy:
		n := AddressLength - countLetters(body)
		return aggregate(NumbersHeavy, n, fmt.Sprintf("%d digits", n))
	case SnakeScoreNoCase:
		n := snakePairs(body)
		return aggregate(SnakeScoreNoCase, n, fmt.Sprintf("%d snake pairs", n))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Type)
	}
}

func positional(n int, summary string) *MatchInfo {
	info := &MatchInfo{Rarity: new(uint256.Int), Summary: summary, RunLength: n}
	if n > 0 {
		info.Rarity = Pow16(n)
	}
	return info
}

func aggregate(kind Kind, n int, summary string) (*MatchInfo, error) {
	info := &MatchInfo{Rarity: new(uint256.Int), Summary: summary}
	if n <= 0 {
		return info, nil
	}
	space, err := Space(kind, n)
	if err != nil {
		return nil, err
	}
	info.Rarity = ExpectedTries(space)
	return info, nil
}

// Highlight marks the body positions that make up the match of address
// against p. Prefix and suffix are only highlighted when they match fully.
func Highlight(address string, p Pattern) ([]bool, error) {
	body, err := Body(address)
	if err != nil {
		return nil, err
	}
	marks := make([]bool, len(body))
	switch p.Type {
	case UserPrefix:
		prefix := strings.ToLower(strip0x(p.Specifier))
		if strings.HasPrefix(body, prefix) {
			fill(marks, 0, len(prefix))
		}
	case UserSuffix:
		suffix := strings.ToLower(p.Specifier)
		if strings.HasSuffix(body, suffix) {
			fill(marks, len(body)-len(suffix), len(body))
		}
	case UserMask:
		mask := maskBody(p.Specifier)
		for i := 0; i < len(mask) && i < len(body); i++ {
			marks[i] = mask[i] != 'x' && mask[i] == body[i]
		}
	case LeadingAny:
		fill(marks, 0, leadingRun(body))
	case TrailingAny:
		fill(marks, len(body)-trailingRun(body), len(body))
	case LettersHeavy:
		for i := 0; i < len(body); i++ {
			marks[i] = isLetter(body[i])
		}
	case NumbersHeavy:
		for i := 0; i < len(body); i++ {
			marks[i] = !isLetter(body[i])
		}
	case SnakeScoreNoCase:
		for i := 0; i+1 < len(body); i++ {
			if body[i] == body[i+1] {
				marks[i], marks[i+1] = true, true
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Type)
	}
	return marks, nil
}

func fill(marks []bool, from, to int) {
	for i := from; i < to; i++ {
		marks[i] = true
	}
}

func leadingRun(body string) int {
	n := 1
	for n < len(body) && body[n] == body[0] {
		n++
	}
	return n
}

func trailingRun(body string) int {
	last := len(body) - 1
	n := 1
	for n <= last && body[last-n] == body[last] {
		n++
	}
	return n
}

func countLetters(body string) int {
	n := 0
	for i := 0; i < len(body); i++ {
		if isLetter(body[i]) {
			n++
		}
	}
	return n
}

func snakePairs(body string) int {
	n := 0
	for i := 0; i+1 < len(body); i++ {
		if body[i] == body[i+1] {
			n++
		}
	}
	return n
}

func commonPrefix(body, prefix string) int {
	n := 0
	for n < len(body) && n < len(prefix) && body[n] == prefix[n] {
		n++
	}
	return n
}

func commonSuffix(body, suffix string) int {
	n := 0
	for n < len(body) && n < len(suffix) && body[len(body)-1-n] == suffix[len(suffix)-1-n] {
		n++
	}
	return n
}
