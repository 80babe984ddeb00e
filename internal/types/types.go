// Package types holds the plain value types shared across the indexer and
// searcher: documents, terms, postings, and scored results.
package types

// DocID identifies a document within a corpus. The corpus walker takes a
// document's id from the integer base name of its file (e.g. "42.txt").
type DocID int

// Model distinguishes which n-gram model a dictionary, postings list, or
// norms table belongs to. Models are processed and persisted in this order.
type Model int

const (
	ModelUnigram Model = iota
	ModelBigram
)

// Models lists the n-gram models in persisted order: unigram, then bigram.
var Models = []Model{ModelUnigram, ModelBigram}

func (m Model) String() string {
	switch m {
	case ModelUnigram:
		return "unigram"
	case ModelBigram:
		return "bigram"
	default:
		return "unknown"
	}
}

// Document is a single corpus item: an id and its extracted content. All
// other fields a source format might carry are ignored.
type Document struct {
	ID      DocID
	Content string
}

// Posting is one occurrence record: a document and how many times a term
// appeared in it.
type Posting struct {
	DocID DocID
	Freq  int
}

// PostingsList is all postings for one term, strictly ascending by DocID.
type PostingsList []Posting

// DocFreq is the number of documents a term appears in — the length of its
// postings list.
func (p PostingsList) DocFreq() int {
	return len(p)
}

// TermFreqs counts occurrences of each n-gram in a token sequence.
type TermFreqs map[string]int

// ScoreDoc pairs a cosine score with a document id. Total order: descending
// score, ties broken by ascending DocID — see Less.
type ScoreDoc struct {
	Score float64
	DocID DocID
}

// Less reports whether s ranks strictly ahead of other under the
// score-document total order (spec section 3): higher score first, and
// among equal scores, lower DocID first.
func (s ScoreDoc) Less(other ScoreDoc) bool {
	if s.Score != other.Score {
		return s.Score > other.Score
	}
	return s.DocID < other.DocID
}
