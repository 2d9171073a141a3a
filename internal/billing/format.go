package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount as the rupee display string used on
// invoice documents, e.g. "₹150,000.00". Grouping follows the legacy
// western style, not Indian lakh/crore grouping.
func FormatINR(amount decimal.Decimal) string {
	return "₹" + groupThousands(amount.StringFixed(2))
}

// FormatUSD renders an amount as the dollar display string used on
// foreign invoice documents.
func FormatUSD(amount decimal.Decimal) string {
	return "$" + groupThousands(amount.StringFixed(2))
}

// groupThousands inserts comma separators into the integer part of a
// fixed-point decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot:]
	}

	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}
