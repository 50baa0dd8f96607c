// Package textnorm folds user text into the canonical ASCII form the
// classifier and entity extractors match against, so their keyword tables can
// stay ASCII-only.
package textnorm

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidInput signals non-text input (empty or whitespace-only).
var ErrInvalidInput = errors.New("textnorm: input is not text")

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases raw text and removes diacritical marks, folding the
// Vietnamese đ/Đ (which carries no combining mark) to its base Latin letter.
// Pure; the only failure mode is receiving no text at all.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidInput
	}

	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		// The chain never fails on valid UTF-8; treat a failure as non-text.
		return "", ErrInvalidInput
	}

	folded = strings.ReplaceAll(folded, "đ", "d")
	folded = strings.ReplaceAll(folded, "Đ", "D")
	return strings.TrimSpace(strings.ToLower(folded)), nil
}
