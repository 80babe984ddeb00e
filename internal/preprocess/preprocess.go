// Package preprocess turns raw document or query text into stemmed
// unigrams and bigrams: the linguistic pipeline spec.md section 1 calls an
// external collaborator, built here in the teacher's stemming idiom
// (github.com/surgebase/porter2) so the indexer and searcher are runnable
// end to end.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/surgebase/porter2"
)

// cssRulePattern strips CSS-rule-shaped fragments from document content
// before tokenization, grounded on original_source/utility.py's
// remove_css_text: a selector (.class, #id, or @media) followed by a
// brace-delimited body.
var cssRulePattern = regexp.MustCompile(`(?s)[.#@][\w.\-]+[ \t]*[\w.\-]*\{.*?\}`)

// tokenPattern splits on runs of non-letters/digits, matching the
// tokenize+remove_punctuations pair from original_source/utility.py.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// StripCSS removes CSS-rule fragments from s.
func StripCSS(s string) string {
	return cssRulePattern.ReplaceAllString(s, " ")
}

// Tokenize lowercases s, strips CSS fragments, and splits into alphanumeric
// tokens with punctuation and whitespace discarded.
func Tokenize(s string) []string {
	s = StripCSS(s)
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// RemoveStopwords filters stop-words out of tokens.
func RemoveStopwords(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if !stopwordSet[t] {
			out = append(out, t)
		}
	}
	return out
}

// Stem Porter2-stems each token.
func Stem(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = porter2.Stem(t)
	}
	return out
}

// Unigrams runs the full token -> stopword-filter -> stem pipeline; the
// resulting stems are the unigram model's terms directly (spec.md 4.1).
func Unigrams(content string) []string {
	return Stem(RemoveStopwords(Tokenize(content)))
}

// Bigrams joins adjacent unigram stems with a single space, per spec.md
// section 3's term definition ("two tokens joined by a single space").
func Bigrams(unigrams []string) []string {
	if len(unigrams) < 2 {
		return nil
	}
	out := make([]string, 0, len(unigrams)-1)
	for i := 0; i+1 < len(unigrams); i++ {
		out = append(out, unigrams[i]+" "+unigrams[i+1])
	}
	return out
}

// Count builds a term-frequency map from a token sequence.
func Count(tokens []string) map[string]int {
	freqs := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freqs[t]++
	}
	return freqs
}
