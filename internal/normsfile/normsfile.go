// Package normsfile persists and reads the fixed-name lengths.txt
// auxiliary file spec.md section 6 describes: per model, one serialized
// map doc_id -> norm, in the same model order as the dictionary.
package normsfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/standardbeagle/retrix/internal/types"
)

// DefaultName is the fixed file name spec.md section 6 mandates.
const DefaultName = "lengths.txt"

// WriteAll writes one map per model, in types.Models order, to path.
func WriteAll(path string, perModel []map[types.DocID]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, norms := range perModel {
		if err := writeUint32(bw, uint32(len(norms))); err != nil {
			return err
		}
		for id, norm := range norms {
			var buf [16]byte
			binary.LittleEndian.PutUint64(buf[0:8], uint64(id))
			binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(norm))
			if _, err := bw.Write(buf[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadAll reads back the per-model norms maps written by WriteAll, in
// types.Models order.
func ReadAll(path string) ([]map[types.DocID]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br := bufio.NewReader(f)

	var perModel []map[types.DocID]float64
	for range types.Models {
		count, err := readUint32(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		norms := make(map[types.DocID]float64, count)
		for i := uint32(0); i < count; i++ {
			var buf [16]byte
			if _, err := io.ReadFull(br, buf[:]); err != nil {
				return nil, err
			}
			id := types.DocID(binary.LittleEndian.Uint64(buf[0:8]))
			norm := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16]))
			norms[id] = norm
		}
		perModel = append(perModel, norms)
	}
	return perModel, nil
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
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
