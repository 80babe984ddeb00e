// Package blockio implements the length-prefixed record framing used for
// SPIMI block files (spec.md 4.1/4.4): a stream of (term, postings)
// records in ascending term order, terminated by a zero-length-term
// sentinel, followed by an xxhash64 trailer over the record stream so a
// truncated or corrupted block is caught before it reaches the merger.
package blockio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	retrixerrors "github.com/standardbeagle/retrix/internal/errors"
	"github.com/standardbeagle/retrix/internal/types"
)

// Writer serializes a sorted stream of (term, postings) records to a block
// file, as the block builder's Write step does (spec.md 4.1).
type Writer struct {
	blockID int
	path    string
	f       *os.File
	bw      *bufio.Writer
	hasher  *xxhash.Digest
	mw      io.Writer
	closed  bool
}

// Create opens path for writing, truncating any existing content.
func Create(blockID int, path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, retrixerrors.NewBlockError(blockID, path, "create", err)
	}
	bw := bufio.NewWriter(f)
	h := xxhash.New()
	return &Writer{
		blockID: blockID,
		path:    path,
		f:       f,
		bw:      bw,
		hasher:  h,
		mw:      io.MultiWriter(bw, h),
	}, nil
}

// WriteRecord appends one (term, postings) record. Callers must emit terms
// in ascending lexicographic order; blockio does not re-sort.
func (w *Writer) WriteRecord(term string, postings types.PostingsList) error {
	if err := writeUint32(w.mw, uint32(len(term))); err != nil {
		return w.wrapErr("write", err)
	}
	if _, err := io.WriteString(w.mw, term); err != nil {
		return w.wrapErr("write", err)
	}
	if err := writeUint32(w.mw, uint32(len(postings))); err != nil {
		return w.wrapErr("write", err)
	}
	for _, p := range postings {
		if err := writePosting(w.mw, p); err != nil {
			return w.wrapErr("write", err)
		}
	}
	return nil
}

// Close writes the end-of-stream sentinel and the trailer checksum, then
// closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := writeUint32(w.mw, 0); err != nil {
		return w.wrapErr("write", err)
	}
	if err := w.bw.Flush(); err != nil {
		return w.wrapErr("flush", err)
	}
	sum := w.hasher.Sum64()
	if err := writeUint64(w.f, sum); err != nil {
		return w.wrapErr("write", err)
	}
	if err := w.f.Close(); err != nil {
		return w.wrapErr("close", err)
	}
	return nil
}

func (w *Writer) wrapErr(op string, err error) error {
	return retrixerrors.NewBlockError(w.blockID, w.path, op, err)
}

// Reader streams (term, postings) records back out of a block file,
// verifying the trailer checksum once the sentinel is reached.
type Reader struct {
	blockID int
	path    string
	f       *os.File
	br      *bufio.Reader
	hasher  *xxhash.Digest
	tr      io.Reader
	empty   bool
}

// Open opens a block file for streaming read. A zero-byte file is treated
// as an empty block (spec.md 4.3: "empty block files are allowed and
// skipped") rather than an error.
func Open(blockID int, path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, retrixerrors.NewBlockError(blockID, path, "open", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, retrixerrors.NewBlockError(blockID, path, "stat", err)
	}
	if info.Size() == 0 {
		f.Close()
		return &Reader{blockID: blockID, path: path, empty: true}, nil
	}
	br := bufio.NewReader(f)
	h := xxhash.New()
	return &Reader{
		blockID: blockID,
		path:    path,
		f:       f,
		br:      br,
		hasher:  h,
		tr:      io.TeeReader(br, h),
	}, nil
}

// Next returns the next record. ok is false once the sentinel has been
// read and the trailer checksum verified; err is non-nil only on I/O
// failure or checksum mismatch.
func (r *Reader) Next() (term string, postings types.PostingsList, ok bool, err error) {
	if r.empty {
		return "", nil, false, nil
	}
	termLen, err := readUint32(r.tr)
	if err != nil {
		return "", nil, false, r.wrapErr("read", err)
	}
	if termLen == 0 {
		return "", nil, false, r.verifyTrailer()
	}
	termBytes := make([]byte, termLen)
	if _, err := io.ReadFull(r.tr, termBytes); err != nil {
		return "", nil, false, r.wrapErr("read", err)
	}
	count, err := readUint32(r.tr)
	if err != nil {
		return "", nil, false, r.wrapErr("read", err)
	}
	postings = make(types.PostingsList, count)
	for i := range postings {
		p, err := readPosting(r.tr)
		if err != nil {
			return "", nil, false, r.wrapErr("read", err)
		}
		postings[i] = p
	}
	return string(termBytes), postings, true, nil
}

func (r *Reader) verifyTrailer() error {
	want, err := readUint64(r.br)
	if err != nil {
		return r.wrapErr("read trailer", err)
	}
	got := r.hasher.Sum64()
	if want != got {
		return r.wrapErr("verify trailer", errChecksumMismatch)
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

func (r *Reader) wrapErr(op string, err error) error {
	return retrixerrors.NewBlockError(r.blockID, r.path, op, err)
}

var errChecksumMismatch = checksumMismatchError{}

type checksumMismatchError struct{}

func (checksumMismatchError) Error() string { return "block trailer checksum mismatch" }

// WritePostingsList serializes postings as a self-describing record (a
// count prefix followed by fixed-size posting entries) and returns the
// number of bytes written. Used both for block files and for the merger's
// global postings file, where byte_offset addresses exactly this framing.
func WritePostingsList(w io.Writer, postings types.PostingsList) (int64, error) {
	counter := &countingWriter{w: w}
	if err := writeUint32(counter, uint32(len(postings))); err != nil {
		return counter.n, err
	}
	for _, p := range postings {
		if err := writePosting(counter, p); err != nil {
			return counter.n, err
		}
	}
	return counter.n, nil
}

// ReadPostingsList reads back a record written by WritePostingsList.
func ReadPostingsList(r io.Reader) (types.PostingsList, error) {
	count, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	postings := make(types.PostingsList, count)
	for i := range postings {
		p, err := readPosting(r)
		if err != nil {
			return nil, err
		}
		postings[i] = p
	}
	return postings, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writePosting(w io.Writer, p types.Posting) error {
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(p.DocID))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.Freq))
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readPosting(r io.Reader) (types.Posting, error) {
	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return types.Posting{}, err
	}
	return types.Posting{
		DocID: types.DocID(binary.LittleEndian.Uint64(buf[0:8])),
		Freq:  int(binary.LittleEndian.Uint32(buf[8:12])),
	}, nil
}
