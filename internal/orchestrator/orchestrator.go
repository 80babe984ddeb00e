// Package orchestrator partitions a document list into fixed-size chunks
// and schedules one block-build task per chunk across a bounded worker
// pool (spec.md 4.2): parallel, share-nothing workers that communicate
// only through the file system. On a fatal worker error the whole run
// aborts and the temporary area is left for inspection.
package orchestrator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/retrix/internal/indexbuild"
	"github.com/standardbeagle/retrix/internal/tracelog"
	"github.com/standardbeagle/retrix/internal/types"
)

// Options configures the parallel orchestrator.
type Options struct {
	BlockSize int // documents per block; spec.md suggests 200-400
	Workers   int // 0 = GOMAXPROCS
	TempDir   string
}

// Run chunks docs into blocks of opts.BlockSize, builds and writes each
// chunk's block concurrently, and returns the number of blocks written.
// The first fatal error from any worker stops further blocks from being
// scheduled (blocks already building run to completion) and is returned;
// Run itself removes nothing from the temporary directory.
func Run(ctx context.Context, docs []types.Document, opts Options, log *tracelog.Logger) (int, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = 300
	}

	chunks := chunk(docs, blockSize)
	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for blockID, chunkDocs := range chunks {
		blockID, chunkDocs := blockID, chunkDocs
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			log.Infof("block %d: building %d documents", blockID, len(chunkDocs))
			b := indexbuild.Build(blockID, chunkDocs)
			if err := b.Write(opts.TempDir); err != nil {
				return err
			}
			log.Infof("block %d: written", blockID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// chunk splits docs (assumed already ascending by DocID — callers sort the
// corpus file list before loading) into fixed-size, disjoint, ascending
// ranges so block ids correspond to ascending document-id ranges, the
// only ordering requirement spec.md section 5 places on the scheduler.
func chunk(docs []types.Document, size int) [][]types.Document {
	if len(docs) == 0 {
		return nil
	}
	var chunks [][]types.Document
	for i := 0; i < len(docs); i += size {
		end := i + size
		if end > len(docs) {
			end = len(docs)
		}
		chunks = append(chunks, docs[i:end])
	}
	return chunks
}
