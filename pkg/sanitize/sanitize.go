// Package sanitize rewrites free-form text before it reaches storage.
// It is a defense-in-depth layer on top of parameterized queries: it never
// rejects input, it only strips the characters and patterns that have no
// business being in a ledger description.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	jsSchemeRe = regexp.MustCompile(`(?i)javascript:`)
	onEventRe  = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// Text strips angle brackets, the javascript: scheme, inline event-handler
// patterns (onload=, onclick=, ...) and C0/C1 control characters, then trims
// surrounding whitespace.
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '<' || r == '>':
			continue
		case r < 0x20 || (r >= 0x7f && r <= 0x9f):
			continue
		default:
			b.WriteRune(r)
		}
	}
	out := jsSchemeRe.ReplaceAllString(b.String(), "")
	out = onEventRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Optional sanitizes s and returns nil when nothing remains. Used for the
// nullable free-text columns (payment_source, notes).
func Optional(s string) *string {
	out := Text(s)
	if out == "" {
		return nil
	}
	return &out
}
