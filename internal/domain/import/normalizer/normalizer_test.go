package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"45,23", "45.23"},
		{"1.234,56", "1234.56"},
		{"5.000,00", "5000"},
		{"1.000.000,00", "1000000"},
		{"R$ 45,23", "45.23"},
		{"  12,99  ", "12.99"},
		{"-45,23", "-45.23"},
		{"0,99", "0.99"},
		{"100", "100"},
		{"", "0"},
		{"abc", "0"},
		{"R$", "0"},
	}

	for _, tc := range tests {
		got := ParseCurrency(tc.input)
		want, _ := decimal.NewFromString(tc.expected)
		if !got.Equal(want) {
			t.Errorf("ParseCurrency(%q) = %s, want %s", tc.input, got, want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5000", "5000,00"},
		{"1234.56", "1234,56"},
		{"0.5", "0,50"},
		{"0", "0,00"},
	}

	for _, tc := range tests {
		d, _ := decimal.NewFromString(tc.input)
		if got := FormatCurrency(d); got != tc.expected {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

// ParseCurrency(FormatCurrency(x)) must round-trip for two-decimal values.
func TestCurrencyRoundTrip(t *testing.T) {
	for _, s := range []string{"0.01", "10.50", "1234.56", "999999999.99"} {
		want, _ := decimal.NewFromString(s)
		got := ParseCurrency(FormatCurrency(want))
		if !got.Equal(want) {
			t.Errorf("round trip %s: got %s", want, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"05/01/2024", "2024-01-05"},
		{"5/1/2024", "2024-01-05"},
		{"31/12/1999", "1999-12-31"},
		{"2024-01-05", "2024-01-05"},
		{"2024-01-05T10:30:00Z", "2024-01-05"},
	}

	for _, tc := range tests {
		if got := ParseDate(tc.input); got != tc.expected {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

// Unparseable dates fall back to today. This is intentional permissiveness,
// not an error path; rows with absurd results are still caught by the
// validator's date-window check.
func TestParseDate_FallbackToToday(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	for _, input := range []string{"", "not a date", "13-02-2024", "99/99"} {
		if got := ParseDate(input); got != today {
			t.Errorf("ParseDate(%q) = %q, want today %q", input, got, today)
		}
	}
}

// ParseDate is idempotent on its own output.
func TestParseDate_Idempotent(t *testing.T) {
	for _, input := range []string{"05/01/2024", "2024-01-05", "garbage"} {
		once := ParseDate(input)
		twice := ParseDate(once)
		if once != twice {
			t.Errorf("ParseDate not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2024-01-05"); got != "05/01/2024" {
		t.Errorf("FormatDate = %q, want 05/01/2024", got)
	}
	if got := FormatDate("not-iso"); got != "not-iso" {
		t.Errorf("FormatDate passthrough = %q", got)
	}
}
