package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Supermercado Extra", "Supermercado Extra"},
		{"  padded  ", "padded"},
		{"<script>alert(1)</script>", "scriptalert(1)/script"},
		{"javascript:alert(1)", "alert(1)"},
		{"JaVaScRiPt:alert(1)", "alert(1)"},
		{"img onload=hack", "img hack"},
		{"onclick = x", "x"},
		{"tab\tand\nnewline", "tabandnewline"},
		{"café com açúcar", "café com açúcar"}, // accents survive
		{"", ""},
		{"\x00\x01\x1f\x7f", ""},
	}

	for _, tc := range tests {
		if got := Text(tc.input); got != tc.expected {
			t.Errorf("Text(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestOptional(t *testing.T) {
	if got := Optional("   "); got != nil {
		t.Fatalf("Optional(blank) = %v, want nil", got)
	}
	if got := Optional("<>"); got != nil {
		t.Fatalf("Optional(stripped-to-empty) = %v, want nil", got)
	}
	got := Optional(" Nubank ")
	if got == nil || *got != "Nubank" {
		t.Fatalf("Optional(\" Nubank \") = %v, want Nubank", got)
	}
}
