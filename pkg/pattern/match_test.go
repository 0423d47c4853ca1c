package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestMatches(t *testing.T) {
	noPairs := "0123456789abcdef0123456789abcdef01234567"
	tests := []struct {
		name    string
		address string
		pattern Pattern
		want    bool
	}{
		{"leading run", addr(strings.Repeat("a", 8) + strings.Repeat("1", 32)), Leading(8), true},
		{"leading run ignores case", addr("aAaAaAaA" + strings.Repeat("1", 32)), Leading(8), true},
		{"leading run too short", addr(strings.Repeat("a", 7) + strings.Repeat("1", 33)), Leading(8), false},
		{"leading beyond body", addr(strings.Repeat("a", 40)), Leading(41), false},
		{"trailing run", addr(strings.Repeat("1", 32) + "FFFFffff"), Trailing(8), true},
		{"trailing run too short", addr(noPairs), Trailing(2), false},
		{"letters heavy", addr(strings.Repeat("a", 32) + strings.Repeat("1", 8)), Letters(32), true},
		{"letters heavy short", addr(strings.Repeat("a", 31) + strings.Repeat("1", 9)), Letters(32), false},
		{"numbers only", addr(strings.Repeat("1234567890", 4)), Numbers(), true},
		{"numbers with one letter", addr(strings.Repeat("1234567890", 3) + "123456789A"), Numbers(), false},
		{"snake pairs overlap", addr("aaa" + noPairs[3:]), Snake(2), true},
		{"snake too few pairs", addr(noPairs), Snake(1), false},
		{"prefix ignores case", addr("cafe" + strings.Repeat("0", 36)), Prefix("0xCAFE"), true},
		{"prefix mismatch", addr("cafd" + strings.Repeat("0", 36)), Prefix("0xCAFE"), false},
		{"suffix", addr(strings.Repeat("1", 32) + "00badd1e"), Suffix("00BADD1E"), true},
		{"suffix mismatch", addr(strings.Repeat("1", 40)), Suffix("00BADD1E"), false},
		{"mask", addr("1234" + strings.Repeat("f", 32) + "5678"), Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678"), true},
		{"mask upper wildcard", addr("1234" + strings.Repeat("f", 32) + "5678"), Mask("1234XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX5678"), true},
		{"mask mismatch", addr("1235" + strings.Repeat("f", 32) + "5678"), Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pattern.Matches(tt.address)
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchFirstPriority(t *testing.T) {
	address := addr("cafe" + strings.Repeat("0", 36))
	prefix := Prefix("0xCAFE")
	trailing := Trailing(8)

	got, err := MatchFirst(address, Set{prefix, trailing})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != prefix {
		t.Errorf("MatchFirst() = %v, want %v", got, prefix)
	}

	got, err = MatchFirst(address, Set{trailing, prefix})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != trailing {
		t.Errorf("MatchFirst() = %v, want %v", got, trailing)
	}

	got, err = MatchFirst(address, Set{Numbers(), Suffix("123456")})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("MatchFirst() = %v, want nil", got)
	}

	if _, err := MatchFirst("0x1234", Set{prefix}); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("MatchFirst() error = %v, want ErrInvalidAddress", err)
	}
}

func TestRarityOf(t *testing.T) {
	noPairs := "0123456789abcdef0123456789abcdef01234567"
	tests := []struct {
		name        string
		address     string
		pattern     Pattern
		wantRarity  *uint256.Int
		wantSummary string
		wantRun     int
	}{
		{
			name:        "realised leading run beats requirement",
			address:     addr(strings.Repeat("a", 10) + "b" + strings.Repeat("1", 29)),
			pattern:     Leading(8),
			wantRarity:  Pow16(10),
			wantSummary: "10 leading A",
			wantRun:     10,
		},
		{
			name:        "trailing run",
			address:     addr(strings.Repeat("1", 31) + strings.Repeat("f", 9)),
			pattern:     Trailing(8),
			wantRarity:  Pow16(9),
			wantSummary: "9 trailing F",
			wantRun:     9,
		},
		{
			name:        "prefix",
			address:     addr("cafe" + strings.Repeat("0", 36)),
			pattern:     Prefix("0xCAFE"),
			wantRarity:  uint256.NewInt(65536),
			wantSummary: "4 char prefix (CAFE)",
			wantRun:     4,
		},
		{
			name:        "suffix",
			address:     addr(strings.Repeat("1", 32) + "00badd1e"),
			pattern:     Suffix("00BADD1E"),
			wantRarity:  Pow16(8),
			wantSummary: "8 char suffix (00BADD1E)",
			wantRun:     8,
		},
		{
			name:        "mask with 8 fixed characters",
			address:     addr("1234" + strings.Repeat("f", 32) + "5678"),
			pattern:     Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678"),
			wantRarity:  uint256.NewInt(4294967296),
			wantSummary: "8 mask characters fixed",
			wantRun:     8,
		},
		{
			name:        "all digits",
			address:     addr(strings.Repeat("1234567890", 4)),
			pattern:     Numbers(),
			wantRarity:  uint256.NewInt(146150163),
			wantSummary: "40 digits",
		},
		{
			name:        "no snake pairs is trivial",
			address:     addr(noPairs),
			pattern:     Snake(15),
			wantRarity:  new(uint256.Int),
			wantSummary: "0 snake pairs",
		},
		{
			name:        "no letters is trivial",
			address:     addr(strings.Repeat("1234567890", 4)),
			pattern:     Letters(32),
			wantRarity:  new(uint256.Int),
			wantSummary: "0 letters",
		},
		{
			name:        "prefix not matched at all",
			address:     addr(strings.Repeat("0", 40)),
			pattern:     Prefix("0xCAFE"),
			wantRarity:  new(uint256.Int),
			wantSummary: "0 char prefix ()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := RarityOf(tt.address, tt.pattern)
			if err != nil {
				t.Fatalf("RarityOf() error = %v", err)
			}
			if !info.Rarity.Eq(tt.wantRarity) {
				t.Errorf("Rarity = %s, want %s", info.Rarity.Dec(), tt.wantRarity.Dec())
			}
			if info.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", info.Summary, tt.wantSummary)
			}
			if info.RunLength != tt.wantRun {
				t.Errorf("RunLength = %d, want %d", info.RunLength, tt.wantRun)
			}
		})
	}
}

// An address meeting a pattern exactly at its threshold must match, and its
// rarity must equal the single-pattern estimate.
func TestRarityAtThresholdEqualsEstimate(t *testing.T) {
	tests := []struct {
		name    string
		address string
		pattern Pattern
	}{
		{"prefix", addr("cafe1" + strings.Repeat("0", 35)), Prefix("0xCAFE")},
		{"suffix", addr(strings.Repeat("1", 31) + "200badd1e"), Suffix("00BADD1E")},
		{"mask", addr("1234" + strings.Repeat("f", 32) + "5678"), Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678")},
		{"letters", addr(strings.Repeat("a", 32) + strings.Repeat("1", 8)), Letters(32)},
		{"numbers", addr(strings.Repeat("9876543210", 4)), Numbers()},
		{"snake", addr(strings.Repeat("0", 16) + strings.Repeat("12", 12)), Snake(15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchFirst(tt.address, Set{tt.pattern})
			if err != nil {
				t.Fatal(err)
			}
			if got == nil {
				t.Fatalf("MatchFirst() = nil, want %v", tt.pattern)
			}
			info, err := RarityOf(tt.address, tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			want := estimate(t, Set{tt.pattern})
			if !info.Rarity.Eq(want) {
				t.Errorf("rarity %s != estimate %s", info.Rarity.Dec(), want.Dec())
			}
		})
	}
}

// Leading and trailing runs leave the repeated character free, so the
// estimate is one hex digit below the realised rarity.
func TestRunRarityIsSixteenTimesEstimate(t *testing.T) {
	for _, p := range []Pattern{Leading(8), Trailing(8)} {
		body := strings.Repeat("7", 8) + strings.Repeat("12", 12) + "3" + strings.Repeat("7", 7)
		if p.Type == TrailingAny {
			body = "3" + strings.Repeat("12", 15) + "4" + strings.Repeat("7", 8)
		}
		info, err := RarityOf(addr(body), p)
		if err != nil {
			t.Fatal(err)
		}
		want := estimate(t, Set{p})
		want.Mul(want, uint256.NewInt(16))
		if !info.Rarity.Eq(want) {
			t.Errorf("%s: rarity %s, want %s", p.Type, info.Rarity.Dec(), want.Dec())
		}
	}
}

func TestHighlight(t *testing.T) {
	address := addr("cafe" + strings.Repeat("0", 34) + "11")
	tests := []struct {
		name    string
		pattern Pattern
		want    []int
	}{
		{"prefix", Prefix("0xCAFE"), []int{0, 1, 2, 3}},
		{"prefix mismatch", Prefix("0xCAFF"), nil},
		{"trailing", Trailing(2), []int{38, 39}},
		{"mask", Mask("cxfx" + strings.Repeat("x", 36)), []int{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			marks, err := Highlight(address, tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			var got []int
			for i, m := range marks {
				if m {
					got = append(got, i)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Highlight() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Highlight() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		pattern Pattern
		wantErr error
	}{
		{"defaults leading", Leading(8), nil},
		{"leading too short", Leading(7), ErrInvalidPattern},
		{"trailing too long", Trailing(41), ErrInvalidPattern},
		{"letters too few", Letters(31), ErrInvalidPattern},
		{"numbers", Numbers(), nil},
		{"snake bounds", Snake(40), ErrInvalidPattern},
		{"prefix without marker", Prefix("C0FFEE00"), ErrInvalidPattern},
		{"prefix too short", Prefix("0xC0FF"), ErrInvalidPattern},
		{"prefix not hex", Prefix("0xC0FFEEZZ"), ErrInvalidPattern},
		{"prefix ok", Prefix("0xC0FFEE00"), nil},
		{"suffix too short", Suffix("BADD1"), ErrInvalidPattern},
		{"suffix ok", Suffix("00BADD1E"), nil},
		{"mask wrong size", Mask("1234xx"), ErrInvalidPattern},
		{"mask bad char", Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx567z"), ErrInvalidPattern},
		{"mask ok", Mask("1234xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx5678"), nil},
		{"unknown", Pattern{Type: "palindrome"}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() error = %v", err)
	}
	if err := (Set{}).Validate(); !errors.Is(err, ErrNoPatterns) {
		t.Errorf("empty set error = %v, want ErrNoPatterns", err)
	}
	if err := (Set{Leading(8), Leading(9)}).Validate(); !errors.Is(err, ErrDuplicateKind) {
		t.Errorf("duplicate kind error = %v, want ErrDuplicateKind", err)
	}
}
