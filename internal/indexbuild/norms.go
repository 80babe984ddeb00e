package indexbuild

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	retrixerrors "github.com/standardbeagle/retrix/internal/errors"
	"github.com/standardbeagle/retrix/internal/types"
)

// NormsWriter serializes a block's (DocID, norm) pairs.
type NormsWriter struct {
	blockID int
	path    string
	f       *os.File
	bw      *bufio.Writer
}

func NewNormsWriter(blockID int, path string) (*NormsWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, retrixerrors.NewBlockError(blockID, path, "create", err)
	}
	return &NormsWriter{blockID: blockID, path: path, f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *NormsWriter) WriteNorm(id types.DocID, norm float64) error {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(id))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(norm))
	if _, err := w.bw.Write(buf[:]); err != nil {
		return retrixerrors.NewBlockError(w.blockID, w.path, "write", err)
	}
	return nil
}

func (w *NormsWriter) Close() error {
	if err := w.bw.Flush(); err != nil {
		return retrixerrors.NewBlockError(w.blockID, w.path, "flush", err)
	}
	return w.f.Close()
}

// ReadNormsBlock reads back a norms block file written by NormsWriter. A
// missing file is treated as an empty block (mirrors blockio's handling of
// empty postings blocks).
func ReadNormsBlock(blockID int, path string) (map[types.DocID]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[types.DocID]float64{}, nil
		}
		return nil, retrixerrors.NewBlockError(blockID, path, "open", err)
	}
	defer f.Close()

	norms := make(map[types.DocID]float64)
	br := bufio.NewReader(f)
	var buf [16]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if err == io.EOF {
			return norms, nil
		}
		if err != nil {
			return nil, retrixerrors.NewBlockError(blockID, path, "read", err)
		}
		id := types.DocID(binary.LittleEndian.Uint64(buf[0:8]))
		norm := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16]))
		norms[id] = norm
	}
}
