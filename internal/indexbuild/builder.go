// Package indexbuild implements the SPIMI block builder: spec.md 4.1.
// Given a bounded slice of documents, it builds an in-memory partial
// inverted index per n-gram model plus per-document norms, then serializes
// both, sorted by term, to a tagged per-model subdirectory.
package indexbuild

import (
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/standardbeagle/retrix/internal/blockio"
	retrixerrors "github.com/standardbeagle/retrix/internal/errors"
	"github.com/standardbeagle/retrix/internal/preprocess"
	"github.com/standardbeagle/retrix/internal/types"
)

// Block is the in-memory partial index for one chunk of documents, one
// map per n-gram model.
type Block struct {
	ID       int
	postings map[types.Model]map[string]types.PostingsList
	norms    map[types.Model]map[types.DocID]float64
}

// Build consumes a chunk of documents (already ordered ascending by
// DocID) and accumulates their unigram and bigram postings and norms
// in memory. A document with no terms for a model (empty content, or a
// single unigram for the bigram model) contributes neither postings nor a
// norm entry to that model, which is not an error.
func Build(blockID int, docs []types.Document) *Block {
	b := &Block{
		ID: blockID,
		postings: map[types.Model]map[string]types.PostingsList{
			types.ModelUnigram: make(map[string]types.PostingsList),
			types.ModelBigram:  make(map[string]types.PostingsList),
		},
		norms: map[types.Model]map[types.DocID]float64{
			types.ModelUnigram: make(map[types.DocID]float64),
			types.ModelBigram:  make(map[types.DocID]float64),
		},
	}
	for _, doc := range docs {
		unigrams := preprocess.Unigrams(doc.Content)
		bigrams := preprocess.Bigrams(unigrams)
		b.addDocument(types.ModelUnigram, doc.ID, unigrams)
		b.addDocument(types.ModelBigram, doc.ID, bigrams)
	}
	return b
}

func (b *Block) addDocument(model types.Model, docID types.DocID, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	freqs := preprocess.Count(tokens)
	sumSquares := 0.0
	for term, f := range freqs {
		b.postings[model][term] = append(b.postings[model][term], types.Posting{DocID: docID, Freq: f})
		weight := 1 + math.Log10(float64(f))
		sumSquares += weight * weight
	}
	b.norms[model][docID] = math.Sqrt(sumSquares)
}

func blockFileName(id int, suffix string) string {
	return "block-" + strconv.Itoa(id) + suffix
}

// Write serializes the block's postings (sorted by term, per spec.md
// 4.1's load-bearing serialization-order invariant) and norms to
// tempDir/<model>/block-<id>.postings and .norms.
func (b *Block) Write(tempDir string) error {
	for _, model := range types.Models {
		dir := filepath.Join(tempDir, model.String())
		if err := ensureDir(dir); err != nil {
			return retrixerrors.NewBlockError(b.ID, dir, "mkdir", err)
		}
		postingsPath := filepath.Join(dir, blockFileName(b.ID, ".postings"))
		if err := b.writePostings(model, postingsPath); err != nil {
			return err
		}
		normsPath := filepath.Join(dir, blockFileName(b.ID, ".norms"))
		if err := b.writeNorms(model, normsPath); err != nil {
			return err
		}
	}
	return nil
}

func (b *Block) writePostings(model types.Model, path string) error {
	w, err := blockio.Create(b.ID, path)
	if err != nil {
		return err
	}
	terms := make([]string, 0, len(b.postings[model]))
	for term := range b.postings[model] {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		if err := w.WriteRecord(term, b.postings[model][term]); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func (b *Block) writeNorms(model types.Model, path string) error {
	w, err := NewNormsWriter(b.ID, path)
	if err != nil {
		return err
	}
	docIDs := make([]types.DocID, 0, len(b.norms[model]))
	for id := range b.norms[model] {
		docIDs = append(docIDs, id)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i] < docIDs[j] })
	for _, id := range docIDs {
		if err := w.WriteNorm(id, b.norms[model][id]); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
