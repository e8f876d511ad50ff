package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency renders raw digit input as a pt-BR currency string.
// Input is treated as cents: "123456" becomes "R$ 1.234,56". Non-digit
// characters are ignored, so re-formatting an already masked value is safe.
func FormatCurrency(value string) string {
	digits := onlyDigits(value)
	if digits == "" {
		return ""
	}
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return ""
	}

	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("R$ %s,%02d", groupThousands(whole), frac)
}

// ParseCurrency recovers the decimal value from a masked currency string.
// Only digits count: "R$ 1.234,56" yields 1234.56. Empty input yields 0.
func ParseCurrency(value string) float64 {
	digits := onlyDigits(value)
	if digits == "" {
		return 0
	}
	cents, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return float64(cents) / 100
}

// FormatCurrencyValue renders a decimal amount as pt-BR currency,
// rounding to the cent.
func FormatCurrencyValue(value float64) string {
	cents := int64(math.Round(value * 100))
	if cents < 0 {
		return "-" + FormatCurrency(strconv.FormatInt(-cents, 10))
	}
	return FormatCurrency(strconv.FormatInt(cents, 10))
}

func groupThousands(n int64) string {
	raw := strconv.FormatInt(n, 10)
	if len(raw) <= 3 {
		return raw
	}
	var sb strings.Builder
	lead := len(raw) % 3
	if lead > 0 {
		sb.WriteString(raw[:lead])
	}
	for i := lead; i < len(raw); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(raw[i : i+3])
	}
	return sb.String()
}

func onlyDigits(value string) string {
	var sb strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
