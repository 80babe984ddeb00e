// Package dictionary reads and writes the sentinel-delimited dictionary
// stream spec.md 4.4 describes: per model, a run of (term, delta offset)
// entries in ascending term order terminated by a (null, null) sentinel,
// reconstructed on read via a running sum of the deltas.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/standardbeagle/retrix/internal/types"
)

// Entry is one dictionary record with its absolute byte offset already
// reconstructed.
type Entry struct {
	Term   string
	Offset int64
}

// Table is a per-model term -> absolute offset map, as the searcher needs
// it in memory (spec.md section 9's "explicit SearchContext" note).
type Table map[string]int64

// Writer emits the sentinel-delimited dictionary stream. The merger
// (internal/merge) is the only producer.
type Writer struct {
	f   *os.File
	bw  *bufio.Writer
	run int64 // running absolute offset, reset to zero at each model boundary
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

// WriteEntry appends one (term, offset) entry, delta-encoding offset
// relative to the previous entry's absolute offset.
func (w *Writer) WriteEntry(term string, offset int64) error {
	delta := offset - w.run
	w.run = offset
	if err := writeUint32(w.bw, uint32(len(term))); err != nil {
		return err
	}
	if _, err := io.WriteString(w.bw, term); err != nil {
		return err
	}
	return writeUint64(w.bw, uint64(delta))
}

// WriteModelBoundary appends the (null, null) sentinel that separates
// successive n-gram models and resets the running offset: deltas are
// relative to the previous entry within the same model (spec.md 4.4), so
// each model's first entry is delta-encoded against zero.
func (w *Writer) WriteModelBoundary() error {
	w.run = 0
	return writeUint32(w.bw, 0)
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	return w.f.Close()
}

// ReadAll replays the full dictionary stream and returns one Table per
// model, in persisted order (unigram, then bigram).
func ReadAll(path string) ([]Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var tables []Table
	current := make(Table)
	var run int64
	for {
		termLen, err := readUint32(br)
		if err == io.EOF {
			if len(current) > 0 {
				tables = append(tables, current)
			}
			return tables, nil
		}
		if err != nil {
			return nil, err
		}
		if termLen == 0 {
			tables = append(tables, current)
			current = make(Table)
			run = 0
			continue
		}
		termBytes := make([]byte, termLen)
		if _, err := io.ReadFull(br, termBytes); err != nil {
			return nil, err
		}
		delta, err := readUint64(br)
		if err != nil {
			return nil, err
		}
		run += int64(delta)
		current[string(termBytes)] = run
	}
}

// ReadModel returns the table for the given model (by its position in
// types.Models). It replays the whole dictionary stream via ReadAll and
// returns an empty table when the stream has no section for that model.
func ReadModel(path string, model types.Model) (Table, error) {
	tables, err := ReadAll(path)
	if err != nil {
		return nil, err
	}
	idx := int(model)
	if idx >= len(tables) {
		return make(Table), nil
	}
	return tables[idx], nil
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
