package order

import (
	"sort"

	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/types"
)

// FilterAll keeps every annotated result in Filter.
const FilterAll = "all"

// Annotated is a published result together with the first request pattern
// its address satisfies. Pattern and Info are nil when none does.
type Annotated struct {
	Result  types.Result
	Pattern *pattern.Pattern
	Info    *pattern.MatchInfo
}

// Kind returns the matched pattern kind, or "" for unmatched results.
func (a *Annotated) Kind() pattern.Kind {
	if a.Pattern == nil {
		return ""
	}
	return a.Pattern.Type
}

// Annotate matches each result address against the request problems and
// measures the realised rarity.
func Annotate(results []types.Result, problems pattern.Set) ([]Annotated, error) {
	out := make([]Annotated, 0, len(results))
	for _, r := range results {
		a := Annotated{Result: r}
		p, err := pattern.MatchFirst(r.Address(), problems)
		if err != nil {
			return nil, err
		}
		if p != nil {
			info, err := pattern.RarityOf(r.Address(), *p)
			if err != nil {
				return nil, err
			}
			a.Pattern, a.Info = p, info
		}
		out = append(out, a)
	}
	return out, nil
}

// Rank orders results by descending rarity. Ties keep their input order and
// unmatched results sink to the end.
func Rank(list []Annotated) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Info, list[j].Info
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Rarity.Gt(b.Rarity)
		}
	})
}

// Filter keeps results whose matched kind is kind. FilterAll or "" keeps
// everything.
func Filter(list []Annotated, kind string) []Annotated {
	if kind == "" || kind == FilterAll {
		return list
	}
	var out []Annotated
	for _, a := range list {
		if string(a.Kind()) == kind {
			out = append(out, a)
		}
	}
	return out
}

// Counts tallies results per matched kind. Unmatched results are counted
// under "".
func Counts(list []Annotated) map[pattern.Kind]int {
	counts := make(map[pattern.Kind]int)
	for i := range list {
		counts[list[i].Kind()]++
	}
	return counts
}
