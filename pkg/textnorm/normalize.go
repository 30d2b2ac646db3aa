// Package textnorm provides charset decoding and unicode normalization for
// raw judgment text, plus a diacritic-folded shadow view used for marker
// matching against inconsistently accented Greek input.
package textnorm

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// RawDocument holds one judgment file read from disk. The original text is
// preserved for output; Folded is a lower-cased, diacritic-stripped view used
// exclusively for marker search.
type RawDocument struct {
	Filename  string
	Authority string
	Text      string
	Folded    string
}

// Lines splits the original text into lines.
func (d *RawDocument) Lines() []string {
	return strings.Split(d.Text, "\n")
}

// FoldedLines splits the folded shadow view into lines. Folding is
// rune-aligned, so line N here corresponds to line N of Lines().
func (d *RawDocument) FoldedLines() []string {
	return strings.Split(d.Folded, "\n")
}

// Load reads and normalizes one judgment file. The file is decoded as UTF-8;
// if the bytes are not valid UTF-8 the decode falls back to ISO-8859-7
// (the single-byte Greek charset of older filings) and any fragments that
// still cannot be represented are dropped rather than failing the task.
func Load(path, authority string) (*RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := Decode(data)
	return &RawDocument{
		Filename:  filepath.Base(path),
		Authority: authority,
		Text:      text,
		Folded:    Fold(text),
	}, nil
}

// Decode converts raw bytes to normalized text. Valid UTF-8 is used as is;
// anything else is re-decoded as ISO-8859-7 with undecodable fragments
// dropped. The result is always NFC-composed with CRLF endings unified.
func Decode(data []byte) string {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		decoded, err := charmap.ISO8859_7.NewDecoder().Bytes(data)
		if err != nil {
			// best effort: keep whatever decodes, drop the rest
			text = strings.ToValidUTF8(string(data), "")
		} else {
			text = string(decoded)
		}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return norm.NFC.String(text)
}

// Fold produces the shadow view: lower-cased with diacritics stripped. The
// transformation is rune-aligned with the NFC input (one output rune per
// input rune), so offsets found in the folded text can be mapped back onto
// the original text by rune index.
func Fold(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		builder.WriteRune(foldRune(r))
	}
	return builder.String()
}

// foldRune lowercases one rune and strips its combining marks by taking the
// base rune of its canonical decomposition.
func foldRune(r rune) rune {
	r = unicode.ToLower(r)
	if r < utf8.RuneSelf {
		return r
	}
	decomposed := norm.NFD.String(string(r))
	base, _ := utf8.DecodeRuneInString(decomposed)
	if base == utf8.RuneError {
		return r
	}
	// final sigma folds to medial so prefix predicates see one spelling
	if base == 'ς' {
		return 'σ'
	}
	return base
}

// ByteOffset maps a byte offset within the folded view back to the byte
// offset of the same rune in the original text.
func ByteOffset(original, folded string, foldedOffset int) int {
	if foldedOffset <= 0 {
		return 0
	}
	runeCount := utf8.RuneCountInString(folded[:foldedOffset])
	offset := 0
	for i := 0; i < runeCount; i++ {
		_, size := utf8.DecodeRuneInString(original[offset:])
		if size == 0 {
			break
		}
		offset += size
	}
	return offset
}

// SpacedPattern builds a case-insensitive pattern matching the phrase with
// arbitrary non-letter characters inserted between its letters, so markers
// survive OCR artifacts like "Δ ι α τ α ύ τ α". The phrase is folded first;
// the pattern is meant to be applied to the folded shadow view.
func SpacedPattern(phrase string) *regexp.Regexp {
	var parts []string
	for _, r := range Fold(phrase) {
		if unicode.IsSpace(r) {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile(`(?i)` + strings.Join(parts, `[^\p{L}]*`))
}

// FindIndex returns the index of the first line satisfying the predicate,
// or -1 if none does.
func FindIndex(lines []string, predicate func(string) bool) int {
	for i, line := range lines {
		if predicate(line) {
			return i
		}
	}
	return -1
}
