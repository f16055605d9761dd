// Package text provides the pure tokenization and paragraph-splitting
// primitives the indexing and search pipeline is built on. It is
// intentionally small and dependency-free, with a few deliberate
// properties:
//
//   - No logging and no I/O; every function is deterministic.
//   - Unicode-aware word boundaries: a "word character" is any letter,
//     digit, or underscore; everything else is trimmed from token edges
//     but kept in the interior ("don't" stays "don't", "--hi!" becomes "hi").
//   - Tokens keep their first-occurrence order and their duplicates;
//     callers that need a multiset use CountTokens.
//   - Paragraphs are separated by a blank line; surrounding whitespace
//     is trimmed and empty blocks are dropped, order preserved.
package text

import (
	"strings"
	"unicode"
)

// Tokenize splits s on whitespace runs, trims leading and trailing
// non-word characters from each piece, lower-cases it, and drops pieces
// that end up empty. The returned slice preserves source order and
// retains duplicates. Empty or all-punctuation input yields nil.
func Tokenize(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := NormalizeWord(f); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeWord applies the tokenizer's per-token rule to a single
// word: strip non-word runes from both ends (interior punctuation is
// untouched) and lower-case the remainder. Returns "" when nothing
// survives the trim.
func NormalizeWord(s string) string {
	return strings.ToLower(strings.TrimFunc(s, isNonWord))
}

// CountTokens returns the multiset of tokens in s: one entry per
// distinct normalized word, mapped to its occurrence count. Counts are
// always >= 1; empty input yields an empty map.
func CountTokens(s string) map[string]int {
	toks := Tokenize(s)
	counts := make(map[string]int, len(toks))
	for _, t := range toks {
		counts[t]++
	}
	return counts
}

// SplitParagraphs splits content on the blank-line boundary ("\n\n"),
// trims surrounding whitespace from each block, and drops blocks that
// are empty after trimming. Order is preserved. Content with no
// non-empty blocks yields an empty slice, never an error.
func SplitParagraphs(content string) []string {
	blocks := strings.Split(content, "\n\n")
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if t := strings.TrimSpace(b); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Excerpt builds a context snippet for word inside text: the tokens
// from window before through window after the first occurrence of the
// (already normalized) word, joined by single spaces. When the word
// does not appear among the re-tokenized tokens, it falls back to the
// first fallbackRunes runes of the raw text.
func Excerpt(text, word string, window, fallbackRunes int) string {
	toks := Tokenize(text)
	for i, t := range toks {
		if t != word {
			continue
		}
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(toks) {
			hi = len(toks)
		}
		return strings.Join(toks[lo:hi], " ")
	}
	runes := []rune(text)
	if len(runes) > fallbackRunes {
		runes = runes[:fallbackRunes]
	}
	return string(runes)
}

// isNonWord reports whether r is outside the word-character class
// (letter, digit, underscore).
func isNonWord(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
