// Command indexer builds a retrix index over a document corpus: spec.md
// 4.1-4.4 end to end (SPIMI block build, parallel orchestration, external
// merge), writing the dictionary, merged postings, lengths, and run
// record files a searcher invocation later recovers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/retrix/internal/config"
	"github.com/standardbeagle/retrix/internal/corpus"
	"github.com/standardbeagle/retrix/internal/dictionary"
	"github.com/standardbeagle/retrix/internal/merge"
	"github.com/standardbeagle/retrix/internal/normsfile"
	"github.com/standardbeagle/retrix/internal/orchestrator"
	"github.com/standardbeagle/retrix/internal/postings"
	"github.com/standardbeagle/retrix/internal/runrecord"
	"github.com/standardbeagle/retrix/internal/tracelog"
	"github.com/standardbeagle/retrix/internal/types"
)

// usageError marks an argument-validation failure: spec.md section 6
// fixes exit code 2 for these, distinct from a fatal run failure (any
// other non-zero code).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// runRecordName is the fixed name the run record is persisted under,
// alongside the dictionary (spec.md section 6: "a small configuration
// record that the indexer persists alongside the outputs").
const runRecordName = "retrix.run.json"

func main() {
	app := &cli.App{
		Name:  "indexer",
		Usage: "build a retrix index over a document directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir-doc",
				Aliases: []string{"i"},
				Usage:   "directory of documents to index, one file per integer document id",
			},
			&cli.StringFlag{
				Name:    "dict-path",
				Aliases: []string{"d"},
				Usage:   "path to write the dictionary file",
			},
			&cli.StringFlag{
				Name:    "postings-path",
				Aliases: []string{"p"},
				Usage:   "path to write the merged postings file",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to an optional retrix.toml tunables file",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "doublestar glob patterns; only matching files are indexed",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "doublestar glob patterns; matching files are skipped",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log per-block progress",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "indexer: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	dirDoc := c.String("dir-doc")
	dictPath := c.String("dict-path")
	postingsPath := c.String("postings-path")
	if dirDoc == "" || dictPath == "" || postingsPath == "" {
		_ = cli.ShowAppHelp(c)
		return usageError{"missing required flag -i/-dir-doc, -d/-dict-path, or -p/-postings-path"}
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := tracelog.New("indexer: ", c.Bool("verbose"))

	// The run record and the fixed-name lengths file are persisted next
	// to the dictionary, per spec.md section 6.
	outDir := filepath.Dir(dictPath)
	lengthsPath := filepath.Join(outDir, normsfile.DefaultName)
	recordPath := filepath.Join(outDir, runRecordName)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(postingsPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, p := range []string{dictPath, postingsPath, lengthsPath, recordPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing stale output %s: %w", p, err)
		}
	}

	// A temp directory created here is removed only after a successful
	// run; after a failure it is left in place for inspection.
	tempDir := cfg.Indexing.TempDir
	ownTempDir := false
	if tempDir == "" {
		tempDir, err = os.MkdirTemp("", "retrix-index-*")
		if err != nil {
			return fmt.Errorf("creating temp directory: %w", err)
		}
		ownTempDir = true
	}

	files, err := corpus.Discover(dirDoc, corpus.Options{
		Include: c.StringSlice("include"),
		Exclude: c.StringSlice("exclude"),
	})
	if err != nil {
		return fmt.Errorf("discovering corpus: %w", err)
	}
	docs, loadErrs := corpus.Load(files, corpus.PlainTextSource{})
	for _, e := range loadErrs {
		log.Warnf("skipping document: %v", e)
	}
	log.Infof("loaded %d documents (%d skipped)", len(docs), len(loadErrs))

	ctx := context.Background()
	numBlocks, err := orchestrator.Run(ctx, docs, orchestrator.Options{
		BlockSize: cfg.Indexing.BlockSize,
		Workers:   cfg.Indexing.Workers,
		TempDir:   tempDir,
	}, log)
	if err != nil {
		return fmt.Errorf("building blocks: %w", err)
	}
	log.Infof("built %d blocks", numBlocks)

	dict, err := dictionary.Create(dictPath)
	if err != nil {
		return fmt.Errorf("creating dictionary: %w", err)
	}
	pf, err := postings.Create(postingsPath)
	if err != nil {
		dict.Close()
		return fmt.Errorf("creating postings file: %w", err)
	}

	mergedNorms := make([]map[types.DocID]float64, 0, len(types.Models))
	for _, model := range types.Models {
		blockPaths, err := merge.BlockFiles(tempDir, model)
		if err != nil {
			pf.Close()
			dict.Close()
			return fmt.Errorf("listing %s blocks: %w", model, err)
		}
		if err := merge.Merge(blockPaths, dict, pf); err != nil {
			pf.Close()
			dict.Close()
			return fmt.Errorf("merging %s blocks: %w", model, err)
		}
		if err := dict.WriteModelBoundary(); err != nil {
			pf.Close()
			dict.Close()
			return fmt.Errorf("writing %s model boundary: %w", model, err)
		}
		norms, err := merge.MergeNorms(tempDir, model)
		if err != nil {
			pf.Close()
			dict.Close()
			return fmt.Errorf("merging %s norms: %w", model, err)
		}
		mergedNorms = append(mergedNorms, norms)
		log.Infof("merged %s: %d blocks", model, len(blockPaths))
	}

	if err := pf.Close(); err != nil {
		dict.Close()
		return fmt.Errorf("closing postings file: %w", err)
	}
	if err := dict.Close(); err != nil {
		return fmt.Errorf("closing dictionary: %w", err)
	}

	if err := normsfile.WriteAll(lengthsPath, mergedNorms); err != nil {
		return fmt.Errorf("writing lengths file: %w", err)
	}

	record := runrecord.Record{
		DirDoc:       dirDoc,
		DictPath:     dictPath,
		PostingsPath: postingsPath,
		LengthsPath:  lengthsPath,
	}
	if err := runrecord.Write(recordPath, record); err != nil {
		return fmt.Errorf("writing run record: %w", err)
	}

	log.Infof("done: %s", recordPath)
	if ownTempDir {
		os.RemoveAll(tempDir)
	}
	return nil
}
