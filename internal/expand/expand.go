// Package expand implements query expansion via pseudo-relevance feedback:
// spec.md 4.6. The original boolean query is split into phrases on the
// literal "AND"; each phrase's top pseudo-relevant documents are mined for
// expansion bigrams; the union of expansion sets, fused with the original
// phrase bigrams, drives one final unbounded bigram VSM pass.
package expand

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/standardbeagle/retrix/internal/config"
	"github.com/standardbeagle/retrix/internal/corpus"
	"github.com/standardbeagle/retrix/internal/preprocess"
	"github.com/standardbeagle/retrix/internal/rerank"
	"github.com/standardbeagle/retrix/internal/types"
	"github.com/standardbeagle/retrix/internal/vsm"
)

var andSplitter = regexp.MustCompile(`\s+AND\s+`)

// Phrase is one conjunct of a boolean query: its original text (trimmed of
// quotes/spaces, used for the section 4.7 boolean re-rank) and its
// stemmed unigram tokens (used to pick the unigram or bigram model and to
// build the query vector).
type Phrase struct {
	Original string
	Tokens   []string
}

// ParseQuery splits query on the literal "AND" and preprocesses each
// phrase. An empty or all-whitespace query yields no phrases.
func ParseQuery(query string) []Phrase {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	parts := andSplitter.Split(query, -1)
	phrases := make([]Phrase, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(strings.TrimSpace(part), `"`)
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == "" {
			continue
		}
		phrases = append(phrases, Phrase{
			Original: trimmed,
			Tokens:   preprocess.Unigrams(trimmed),
		})
	}
	return phrases
}

// Expander holds the per-invocation search context: the unigram and
// bigram VSM contexts, expansion tunables, and the document access needed
// to mine pseudo-relevant content and to re-check phrase containment.
// This is the explicit state spec.md section 9 asks for in place of the
// source's global doc_query_cache.
type Expander struct {
	Unigram *vsm.Context
	Bigram  *vsm.Context
	Config  config.Expansion
	Docs    corpus.DocumentSource
	Paths   map[types.DocID]string

	cache map[types.DocID]string
}

// content returns a document's raw content, memoized per invocation. A
// document that cannot be read contributes empty content rather than
// aborting the query (spec.md section 7: CorpusIoError in the searcher's
// expansion step returns empty content).
func (e *Expander) content(id types.DocID) string {
	if e.cache == nil {
		e.cache = make(map[types.DocID]string)
	}
	if c, ok := e.cache[id]; ok {
		return c
	}
	path, ok := e.Paths[id]
	if !ok {
		e.cache[id] = ""
		return ""
	}
	c, err := e.Docs.Extract(path)
	if err != nil {
		c = ""
	}
	e.cache[id] = c
	return c
}

// Search runs the full boolean-query-with-expansion pipeline and returns
// the final ranked document id list (spec.md 4.6/4.7).
func (e *Expander) Search(query string) []types.DocID {
	phrases := ParseQuery(query)
	if len(phrases) == 0 {
		return nil
	}

	expansionVotes := make(types.TermFreqs)
	enhancedOriginal := make(types.TermFreqs)

	for _, phrase := range phrases {
		pr := e.evaluatePhrase(phrase)
		for _, term := range e.mineExpansionBigrams(pr) {
			expansionVotes[term]++
		}
		if len(phrase.Tokens) >= 2 {
			for term, c := range preprocess.Count(preprocess.Bigrams(phrase.Tokens)) {
				enhancedOriginal[term] += c * e.Config.Enhance
			}
		}
	}

	finalBag := make(types.TermFreqs, len(expansionVotes)+len(enhancedOriginal))
	for term, c := range expansionVotes {
		finalBag[term] += c
	}
	for term, c := range enhancedOriginal {
		finalBag[term] += c
	}
	if len(finalBag) == 0 {
		return nil
	}

	ranked := vsm.Evaluate(e.Bigram, finalBag, 0)
	docIDs := make([]types.DocID, len(ranked))
	for i, sd := range ranked {
		docIDs[i] = sd.DocID
	}

	originals := make([]string, len(phrases))
	for i, p := range phrases {
		originals[i] = p.Original
	}
	return rerank.Rerank(docIDs, originals, e.content)
}

// evaluatePhrase runs the initial VSM pass for one phrase: unigram model
// if the phrase is a single token, bigram model otherwise, keeping at
// most Config.DocumentLimit top documents as the pseudo-relevant set.
func (e *Expander) evaluatePhrase(phrase Phrase) []types.ScoreDoc {
	if len(phrase.Tokens) == 1 {
		query := types.TermFreqs{phrase.Tokens[0]: 1}
		return vsm.Evaluate(e.Unigram, query, e.Config.DocumentLimit)
	}
	query := preprocess.Count(preprocess.Bigrams(phrase.Tokens))
	return vsm.Evaluate(e.Bigram, query, e.Config.DocumentLimit)
}

// mineExpansionBigrams assembles the concatenated, preprocessed content of
// a pseudo-relevant set and scores each candidate bigram by
// (1+log10 tf) * idf * df_in_pr, per spec.md 4.6 step 2, returning the top
// Config.KeywordLimit terms.
func (e *Expander) mineExpansionBigrams(pr []types.ScoreDoc) []string {
	if len(pr) == 0 {
		return nil
	}

	tf := make(map[string]int)
	occurrences := make(map[string]int)
	for _, sd := range pr {
		content := e.content(sd.DocID)
		bigrams := preprocess.Bigrams(preprocess.Unigrams(content))
		seen := make(map[string]bool)
		counts := preprocess.Count(bigrams)
		for b, c := range counts {
			tf[b] += c
			if !seen[b] {
				occurrences[b]++
				seen[b] = true
			}
		}
	}

	numDocs := float64(e.Bigram.NumDocs())
	type scored struct {
		term  string
		score float64
	}
	var candidates []scored
	for b, tfB := range tf {
		offset, ok := e.Bigram.Dict[b]
		if !ok {
			continue
		}
		list, err := e.Bigram.Postings.ReadAt(b, offset)
		if err != nil || len(list) == 0 {
			continue
		}
		idf := math.Log10(numDocs / float64(len(list)))
		dfInPR := float64(occurrences[b]) / float64(e.Config.DocumentLimit)
		score := (1 + math.Log10(float64(tfB))) * idf * dfInPR
		candidates = append(candidates, scored{term: b, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].term < candidates[j].term
	})

	limit := e.Config.KeywordLimit
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = candidates[i].term
	}
	return out
}
