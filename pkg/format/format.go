// Package format renders difficulties, hash rates and durations for people.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/holiman/uint256"
)

var difficultyUnits = []string{"", "kH", "MH", "GH", "TH", "PH", "EH", "ZH", "YH"}

// Narrow converts an exact work value to float64. Values above 2^53 lose
// precision; that is acceptable for display and rate arithmetic only.
func Narrow(v *uint256.Int) float64 {
	if v == nil {
		return 0
	}
	if v.IsUint64() {
		return float64(v.Uint64())
	}
	f, _ := new(big.Float).SetInt(v.ToBig()).Float64()
	return f
}

// Difficulty renders a work amount with a metric hash suffix obtained by
// repeated division by 1000, e.g. 268435456 -> "268.4 MH".
func Difficulty(d float64) string {
	if math.IsNaN(d) {
		return "NaN"
	}
	unit := 0
	for d >= 1000 && unit < len(difficultyUnits)-1 {
		d /= 1000
		unit++
	}
	precision := 1
	switch {
	case d < 10:
		precision = 3
	case d < 100:
		precision = 2
	}
	return strconv.FormatFloat(d, 'f', precision, 64) + " " + difficultyUnits[unit]
}

// Work is Difficulty for an exact work value.
func Work(v *uint256.Int) string {
	if v == nil {
		return "N/A"
	}
	return Difficulty(Narrow(v))
}

// HashRate renders hashes per second, e.g. "5.000 MH/s".
func HashRate(rate float64) string {
	return Difficulty(rate) + "/s"
}

// Hours renders a span of hours as minutes, fractional hours or days.
func Hours(total float64) string {
	switch {
	case total < 1:
		return fmt.Sprintf("%d m", int(math.Round(total*60)))
	case total < 24:
		return fmt.Sprintf("%.1f h", total)
	default:
		days := int(math.Floor(total / 24))
		hours := int(math.Round(math.Mod(total, 24)))
		return fmt.Sprintf("%d d %d h", days, hours)
	}
}

// Remaining renders time left on a request, "expired" once it is gone.
func Remaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	s := int64(d / time.Second)
	days := s / 86400
	hours := (s % 86400) / 3600
	minutes := (s % 3600) / 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Elapsed formats a run duration the way progress lines show it.
func Elapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// Number adds thousands separators.
func Number(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// TruncateMiddle keeps the first start and last end characters of s.
func TruncateMiddle(s string, start, end int) string {
	if len(s) <= start+end {
		return s
	}
	return s[:start] + "…" + s[len(s)-end:]
}
