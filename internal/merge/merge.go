// Package merge implements the external k-way merger: spec.md 4.3/4.4.
// Given all block files for one model, it streams a k-way merge ordered
// by term (then block id for stability), coalescing duplicate terms, and
// emits sentinel-delimited dictionary entries plus the concatenated
// merged postings file. It never loads an entire block into memory — only
// one buffered record per block plus the running target.
package merge

import (
	"container/heap"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/standardbeagle/retrix/internal/blockio"
	"github.com/standardbeagle/retrix/internal/dictionary"
	retrixerrors "github.com/standardbeagle/retrix/internal/errors"
	"github.com/standardbeagle/retrix/internal/indexbuild"
	"github.com/standardbeagle/retrix/internal/postings"
	"github.com/standardbeagle/retrix/internal/types"
)

var blockFilePattern = regexp.MustCompile(`^block-(\d+)\.postings$`)

// BlockFiles lists a model's postings-block files under tempDir/<model>,
// sorted by integer block id for stable tie-breaking in the merge.
func BlockFiles(tempDir string, model types.Model) ([]string, error) {
	dir := filepath.Join(tempDir, model.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	type idPath struct {
		id   int
		path string
	}
	var found []idPath
	for _, e := range entries {
		m := blockFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, _ := strconv.Atoi(m[1])
		found = append(found, idPath{id, filepath.Join(dir, e.Name())})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].id < found[j].id })
	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths, nil
}

// heapItem is one buffered lookahead record from a block reader.
type heapItem struct {
	term     string
	postings types.PostingsList
	blockID  int
	reader   *blockio.Reader
}

type itemHeap []*heapItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].term != h[j].term {
		return h[i].term < h[j].term
	}
	return h[i].blockID < h[j].blockID
}
func (h itemHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x any)        { *h = append(*h, x.(*heapItem)) }
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Merge runs the external k-way merge for one model: reads blockPaths via
// blockio, writes dictionary entries through dict (one model's worth,
// terminated by the caller calling dict.WriteModelBoundary after Merge
// returns), and appends merged postings lists through pf.
func Merge(blockPaths []string, dict *dictionary.Writer, pf *postings.Writer) error {
	h := &itemHeap{}
	readers := make([]*blockio.Reader, 0, len(blockPaths))
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()

	lastTermByBlock := make(map[int]string)

	for blockID, path := range blockPaths {
		r, err := blockio.Open(blockID, path)
		if err != nil {
			return err
		}
		readers = append(readers, r)
		if err := pushNext(h, r, blockID, lastTermByBlock); err != nil {
			return err
		}
	}
	heap.Init(h)

	var targetTerm string
	var targetList types.PostingsList
	haveTarget := false

	flush := func() error {
		if !haveTarget {
			return nil
		}
		offset, err := pf.Append(targetList)
		if err != nil {
			return err
		}
		return dict.WriteEntry(targetTerm, offset)
	}

	for h.Len() > 0 {
		item := heap.Pop(h).(*heapItem)

		if haveTarget && item.term == targetTerm {
			targetList = append(targetList, item.postings...)
		} else {
			if err := flush(); err != nil {
				return err
			}
			targetTerm = item.term
			targetList = item.postings
			haveTarget = true
		}

		if err := pushNext(h, item.reader, item.blockID, lastTermByBlock); err != nil {
			return err
		}
	}

	return flush()
}

// pushNext pulls the next record off a block reader and pushes it onto
// the heap, checking that the block's own record order is strictly
// ascending (spec.md 4.1's load-bearing serialization invariant) before
// the merger trusts it.
func pushNext(h *itemHeap, r *blockio.Reader, blockID int, lastTermByBlock map[int]string) error {
	term, list, ok, err := r.Next()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if prev, seen := lastTermByBlock[blockID]; seen && term <= prev {
		return retrixerrors.NewMergeError(blockID, prev, term)
	}
	lastTermByBlock[blockID] = term
	heap.Push(h, &heapItem{term: term, postings: list, blockID: blockID, reader: r})
	return nil
}

// MergeNorms unions all of a model's norms blocks into one table. Blocks
// cover disjoint document-id ranges, so this is a plain union, not a
// by-term merge.
func MergeNorms(tempDir string, model types.Model) (map[types.DocID]float64, error) {
	dir := filepath.Join(tempDir, model.String())
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[types.DocID]float64{}, nil
		}
		return nil, err
	}
	merged := make(map[types.DocID]float64)
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".norms" {
			continue
		}
		norms, err := indexbuild.ReadNormsBlock(0, filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for id, n := range norms {
			merged[id] = n
		}
	}
	return merged, nil
}
