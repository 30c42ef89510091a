// Package textnorm turns raw French course text into the canonical token
// stream indexed by the search engine: lowercase, generic-word exclusion,
// stop-word and verb removal, then Snowball stemming.
package textnorm

import (
	"strings"
	"unicode"

	snowballfr "github.com/kljensen/snowball/french"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer holds the wordlists driving the pipeline. Safe for
// concurrent use once built.
type Normalizer struct {
	exclusions []string
	stopWords  map[string]struct{}
}

// New builds a normalizer from the built-in lists plus optional extras
// (e.g. from the wordlists overlay file).
func New(extraExclusions, extraStopWords []string) *Normalizer {
	n := &Normalizer{
		exclusions: append(append([]string{}, defaultExclusions...), extraExclusions...),
		stopWords:  make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords)),
	}
	for _, w := range defaultStopWords {
		n.stopWords[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		n.stopWords[FoldAccents(strings.ToLower(w))] = struct{}{}
	}
	return n
}

// Normalize converts raw text into a space-joined list of stems.
// Deterministic for fixed wordlists and stemmer version. An input that
// survives no stage returns the empty string, never an error.
func (n *Normalizer) Normalize(raw string) string {
	words := strings.Fields(strings.ToLower(raw))

	// Stage 1: drop any word containing an excluded generic word.
	// Substring on purpose: "formations" falls with "format".
	kept := words[:0]
	for _, w := range words {
		if !n.excluded(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	// Stage 2: split into alphabetic tokens, drop stop words and
	// infinitive-looking verbs, stem the survivors.
	var stems []string
	for _, w := range kept {
		for _, token := range splitAlpha(w) {
			folded := FoldAccents(token)
			if _, stop := n.stopWords[folded]; stop {
				continue
			}
			if looksLikeInfinitive(folded) {
				continue
			}
			stems = append(stems, snowballfr.Stem(token, false))
		}
	}
	return strings.Join(stems, " ")
}

func (n *Normalizer) excluded(word string) bool {
	for _, ex := range n.exclusions {
		if strings.Contains(word, ex) {
			return true
		}
	}
	return false
}

// splitAlpha breaks a word on every non-letter rune, so "l'analyse"
// yields "l" and "analyse" and numeric fragments vanish.
func splitAlpha(word string) []string {
	return strings.FieldsFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldAccents removes combining marks: "évaluée" becomes "evaluee".
func FoldAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// looksLikeInfinitive approximates the original POS-based verb drop with
// a suffix heuristic on the accent-folded token. "-ier" nouns (métier,
// atelier) are spared.
func looksLikeInfinitive(folded string) bool {
	if len(folded) < 5 {
		return false
	}
	switch {
	case strings.HasSuffix(folded, "ier"):
		return false
	case strings.HasSuffix(folded, "er"):
		return true
	case strings.HasSuffix(folded, "oir"):
		return true
	case strings.HasSuffix(folded, "ir"):
		return true
	}
	return false
}
