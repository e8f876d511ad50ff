package format

import (
	"fmt"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"R$ ", ""},
		{"1", "R$ 0,01"},
		{"56", "R$ 0,56"},
		{"156", "R$ 1,56"},
		{"123456", "R$ 1.234,56"},
		{"100000000", "R$ 1.000.000,00"},
		{"R$ 1.234,56", "R$ 1.234,56"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Fatalf("FormatCurrency(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	if got := ParseCurrency("R$ 1.234,56"); got != 1234.56 {
		t.Fatalf("ParseCurrency = %v, want 1234.56", got)
	}
	if got := ParseCurrency(""); got != 0 {
		t.Fatalf("ParseCurrency empty = %v, want 0", got)
	}
	if got := ParseCurrency("abc"); got != 0 {
		t.Fatalf("ParseCurrency non-numeric = %v, want 0", got)
	}
}

func TestFormatCurrencyValue(t *testing.T) {
	if got := FormatCurrencyValue(1234.56); got != "R$ 1.234,56" {
		t.Fatalf("FormatCurrencyValue = %q", got)
	}
	if got := FormatCurrencyValue(0.1); got != "R$ 0,10" {
		t.Fatalf("FormatCurrencyValue(0.1) = %q", got)
	}
	if got := FormatCurrencyValue(-12.5); got != "-R$ 12,50" {
		t.Fatalf("FormatCurrencyValue(-12.5) = %q", got)
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	// parse(format(n)) must recover n exactly for whole-cent amounts.
	for _, cents := range []int64{1, 99, 100, 12345, 123456, 999999999, 100000000000} {
		masked := FormatCurrency(fmt.Sprintf("%d", cents))
		got := ParseCurrency(masked)
		want := float64(cents) / 100
		if got != want {
			t.Fatalf("round trip %d cents: format=%q parse=%v want %v", cents, masked, got, want)
		}
	}
}
