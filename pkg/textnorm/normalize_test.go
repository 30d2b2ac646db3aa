package textnorm

import (
	"strings"
	"testing"
)

func TestDecodeUTF8Passthrough(t *testing.T) {
	in := []byte("Αριθμός 123/2024\r\nΤΟ ΔΙΚΑΣΤΗΡΙΟ")
	got := Decode(in)
	if strings.Contains(got, "\r") {
		t.Errorf("expected CRLF unified, got %q", got)
	}
	if !strings.Contains(got, "Αριθμός") {
		t.Errorf("expected text preserved, got %q", got)
	}
}

func TestDecodeISO88597Fallback(t *testing.T) {
	// "Αριθμός" in ISO-8859-7 single-byte encoding
	in := []byte{0xC1, 0xF1, 0xE9, 0xE8, 0xEC, 0xFC, 0xF2}
	got := Decode(in)
	if got != "Αριθμός" {
		t.Errorf("expected ISO-8859-7 fallback decode, got %q", got)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ΔΗΜΟΣΙΕΥΘΗΚΕ", "δημοσιευθηκε"},
		{"Αριθμός", "αριθμοσ"},
		{"Φεβρουαρίου", "φεβρουαριου"},
		{"ΓΙΑ ΤΟΥΣ ΛΟΓΟΥΣ ΑΥΤΟΥΣ", "για τουσ λογουσ αυτουσ"},
		{"abc 123", "abc 123"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldIsRuneAligned(t *testing.T) {
	in := "Συνεδρίασε δημόσια στις 20 Φεβρουαρίου 2024"
	folded := Fold(in)
	if len([]rune(folded)) != len([]rune(in)) {
		t.Fatalf("fold changed rune count: %d != %d", len([]rune(folded)), len([]rune(in)))
	}
}

func TestByteOffset(t *testing.T) {
	original := "Αριθμός 123"
	folded := Fold(original)

	at := strings.Index(folded, "123")
	if at < 0 {
		t.Fatal("marker not found in folded view")
	}
	mapped := ByteOffset(original, folded, at)
	if original[mapped:] != "123" {
		t.Errorf("mapped offset %d points at %q, want %q", mapped, original[mapped:], "123")
	}
}

func TestSpacedPattern(t *testing.T) {
	pattern := SpacedPattern("Δια ταύτα")

	tests := []struct {
		in   string
		want bool
	}{
		{Fold("Δια ταύτα"), true},
		{Fold("ΔΙΑ ΤΑΥΤΑ"), true},
		{Fold("Δ ι α   τ α ύ τ α"), true},
		{Fold("Δια-ταύτα"), true},
		{Fold("διατριβή ταύτης"), false},
	}
	for _, tt := range tests {
		if got := pattern.MatchString(tt.in); got != tt.want {
			t.Errorf("match %q = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindIndex(t *testing.T) {
	lines := []string{"", "alpha", "beta"}
	got := FindIndex(lines, func(s string) bool { return s == "beta" })
	if got != 2 {
		t.Errorf("expected index 2, got %d", got)
	}
	got = FindIndex(lines, func(s string) bool { return s == "gamma" })
	if got != -1 {
		t.Errorf("expected -1 for no match, got %d", got)
	}
}
