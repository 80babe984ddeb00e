// Package postings reads and writes the final merged postings file:
// spec.md 4.4's "concatenation of opaque, length-self-describing
// serialized postings lists", addressed by the byte offsets the
// dictionary records. Only the merger produces it; only the searcher
// consumes it, via seek.
package postings

import (
	"os"

	"github.com/standardbeagle/retrix/internal/blockio"
	retrixerrors "github.com/standardbeagle/retrix/internal/errors"
	"github.com/standardbeagle/retrix/internal/types"
)

// Writer appends serialized postings lists to the merged postings file and
// tracks the running byte offset so the merger can hand each flushed
// term's dictionary entry its correct byte_offset.
type Writer struct {
	f   *os.File
	run int64
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f}, nil
}

// Offset returns the current running offset: where the next Append call
// will place its list.
func (w *Writer) Offset() int64 { return w.run }

// Append serializes list and returns the absolute offset it was written
// at.
func (w *Writer) Append(list types.PostingsList) (int64, error) {
	offset := w.run
	n, err := blockio.WritePostingsList(w.f, list)
	if err != nil {
		return 0, err
	}
	w.run += n
	return offset, nil
}

func (w *Writer) Close() error { return w.f.Close() }

// Reader serves point reads of postings lists by byte offset: the
// searcher's only mode of consuming this file (spec.md section 5:
// "seek/read are serialized").
type Reader struct {
	f *os.File
}

// Open opens the merged postings file for random-access reads.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{f: f}, nil
}

// ReadAt seeks to offset and reads exactly one postings list, per spec.md
// 4.4's dictionary-offset-correctness invariant.
func (r *Reader) ReadAt(term string, offset int64) (types.PostingsList, error) {
	if _, err := r.f.Seek(offset, 0); err != nil {
		return nil, retrixerrors.NewSeekError(term, offset, err)
	}
	list, err := blockio.ReadPostingsList(r.f)
	if err != nil {
		return nil, retrixerrors.NewSeekError(term, offset, err)
	}
	return list, nil
}

func (r *Reader) Close() error { return r.f.Close() }
