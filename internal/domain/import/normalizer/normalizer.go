// Package normalizer converts Brazilian-locale money and date text into the
// canonical forms stored in the ledger, and back for export.
package normalizer

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const isoDateLayout = "2006-01-02"

var brDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ParseCurrency parses Brazilian-formatted currency text ("R$ 1.234,56") into
// a decimal. The period is a thousands separator and the comma the decimal
// separator. Malformed input degrades to zero rather than an error: the
// amount-bounds validation downstream is responsible for rejecting it.
func ParseCurrency(raw string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatCurrency renders a decimal with exactly two decimal digits and a
// comma decimal separator ("5000,00"). Display/export only; the output is
// never re-parsed by the ledger.
func FormatCurrency(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// ParseDate accepts DD/MM/YYYY or ISO YYYY-MM-DD (with any time component
// truncated) and returns a zero-padded ISO date. Anything else falls back to
// today's date. The fallback is a deliberate permissive default kept for
// compatibility with existing imports; see the package tests.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)

	if m := brDateRe.FindStringSubmatch(s); m != nil {
		day, month, year := m[1], m[2], m[3]
		if len(day) == 1 {
			day = "0" + day
		}
		if len(month) == 1 {
			month = "0" + month
		}
		return year + "-" + month + "-" + day
	}

	if isoDateRe.MatchString(s) {
		return s[:10]
	}

	return time.Now().Format(isoDateLayout)
}

// FormatDate renders an ISO date as DD/MM/YYYY for export display. Input that
// is not an ISO date is returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(isoDateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}
