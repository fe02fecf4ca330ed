package indicator

import (
	"fmt"
	"strconv"

	"github.com/mohamedkhairy/market-sentry/internal/models"
)

// FormatPct formats a percentage for display with a leading sign.
func FormatPct(value float64, decimals int) string {
	sign := ""
	if value >= 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

// FormatPctOpt formats an optional percentage, rendering absence as N/A.
func FormatPctOpt(value *float64, decimals int) string {
	if value == nil {
		return "N/A"
	}
	return FormatPct(*value, decimals)
}

// FormatPrice formats a price for display based on the symbol type:
// yields render as a level with a percent sign, index levels bare,
// everything else as currency.
func FormatPrice(value float64, symbol string) string {
	switch symbol {
	case models.SymbolTNX:
		return fmt.Sprintf("%.2f%%", value)
	case models.SymbolVIX:
		return fmt.Sprintf("%.2f", value)
	case models.SymbolBTC:
		return "$" + groupThousands(fmt.Sprintf("%.0f", value))
	default:
		return fmt.Sprintf("$%.2f", value)
	}
}

// groupThousands inserts comma separators into an integer string.
func groupThousands(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
