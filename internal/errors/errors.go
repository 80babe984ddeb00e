// Package errors defines the typed error kinds raised by the indexer and
// searcher, mirroring spec.md section 7's error-kind taxonomy.
package errors

import (
	"fmt"
	"time"
)

// Kind classifies a retrix error per spec.md section 7.
type Kind string

const (
	KindCorpusIO   Kind = "corpus_io"   // a document file could not be opened or parsed
	KindTempIO     Kind = "temp_io"     // a block file could not be written or read back
	KindMergeDrift Kind = "merge_drift" // an incoming record violated sorted order within a block
	KindSeekRange  Kind = "seek_range"  // a dictionary offset pointed past EOF of the postings file
)

// CorpusError wraps a per-document extraction failure. Recoverable: the
// indexer logs and skips the document; the searcher's expansion step
// treats it as empty content.
type CorpusError struct {
	Path       string
	Underlying error
	At         time.Time
}

func NewCorpusError(path string, err error) *CorpusError {
	return &CorpusError{Path: path, Underlying: err, At: time.Now()}
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("corpus: %s: %v", e.Path, e.Underlying)
}

func (e *CorpusError) Unwrap() error { return e.Underlying }

func (e *CorpusError) Kind() Kind { return KindCorpusIO }

// Recoverable is always true for CorpusError: a single bad document must
// not abort the run.
func (e *CorpusError) Recoverable() bool { return true }

// BlockError wraps a failure writing or reading back a block file. Fatal
// to the whole indexer invocation.
type BlockError struct {
	BlockID    int
	Path       string
	Op         string
	Underlying error
	At         time.Time
}

func NewBlockError(blockID int, path, op string, err error) *BlockError {
	return &BlockError{BlockID: blockID, Path: path, Op: op, Underlying: err, At: time.Now()}
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: %s %s: %v", e.BlockID, e.Op, e.Path, e.Underlying)
}

func (e *BlockError) Unwrap() error { return e.Underlying }

func (e *BlockError) Kind() Kind { return KindTempIO }

func (e *BlockError) Recoverable() bool { return false }

// MergeError reports a block whose records were not in strictly ascending
// term order, violating the merger's load-bearing input invariant. Fatal:
// indicates a block-builder bug.
type MergeError struct {
	BlockID  int
	PrevTerm string
	Term     string
	At       time.Time
}

func NewMergeError(blockID int, prevTerm, term string) *MergeError {
	return &MergeError{BlockID: blockID, PrevTerm: prevTerm, Term: term, At: time.Now()}
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge: block %d out of order: %q after %q", e.BlockID, e.Term, e.PrevTerm)
}

func (e *MergeError) Kind() Kind { return KindMergeDrift }

func (e *MergeError) Recoverable() bool { return false }

// SeekError reports a dictionary offset pointing past the end of the
// postings file. Fatal for that one query term; the searcher skips it and
// continues evaluating the rest of the query.
type SeekError struct {
	Term       string
	Offset     int64
	Underlying error
	At         time.Time
}

func NewSeekError(term string, offset int64, err error) *SeekError {
	return &SeekError{Term: term, Offset: offset, Underlying: err, At: time.Now()}
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("seek: term %q at offset %d: %v", e.Term, e.Offset, e.Underlying)
}

func (e *SeekError) Unwrap() error { return e.Underlying }

func (e *SeekError) Kind() Kind { return KindSeekRange }

func (e *SeekError) Recoverable() bool { return true }
