package series

import (
	"fmt"
	"strings"
)

// NotAvailable is the display value used when a derived metric cannot be
// computed.
const NotAvailable = "N/A"

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var b strings.Builder
		start := len(s) % 3
		if start > 0 {
			b.WriteString(s[:start])
		}
		for i := start; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatCap formats a market-cap style dollar value with T/B/M/K suffixes.
func FormatCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatPct formats a signed percentage with two decimals, e.g. "+2.11%".
func FormatPct(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}

// FormatPrice formats a price as $X.XX.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f", p)
}
