// Command searcher answers boolean queries with pseudo-relevance-feedback
// expansion against a retrix index built by cmd/indexer: spec.md 4.5-4.7
// end to end. It recovers the document directory from the run record the
// indexer wrote alongside the dictionary, loads the unigram and bigram
// dictionaries/postings/norms, evaluates each non-empty query line, and
// writes a single output line: the final ranked document ids of the last
// non-empty query.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/retrix/internal/config"
	"github.com/standardbeagle/retrix/internal/corpus"
	"github.com/standardbeagle/retrix/internal/dictionary"
	"github.com/standardbeagle/retrix/internal/expand"
	"github.com/standardbeagle/retrix/internal/normsfile"
	"github.com/standardbeagle/retrix/internal/postings"
	"github.com/standardbeagle/retrix/internal/runrecord"
	"github.com/standardbeagle/retrix/internal/tracelog"
	"github.com/standardbeagle/retrix/internal/types"
	"github.com/standardbeagle/retrix/internal/vsm"
)

// usageError marks an argument-validation failure: spec.md section 6
// fixes exit code 2 for these, distinct from a fatal run failure (any
// other non-zero code).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// runRecordName mirrors cmd/indexer's fixed run-record file name, found
// alongside the dictionary the indexer wrote.
const runRecordName = "retrix.run.json"

func main() {
	app := &cli.App{
		Name:  "searcher",
		Usage: "answer boolean queries against a retrix index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dict-path",
				Aliases: []string{"d"},
				Usage:   "path to the dictionary file written by the indexer",
			},
			&cli.StringFlag{
				Name:    "postings-path",
				Aliases: []string{"p"},
				Usage:   "path to the merged postings file written by the indexer",
			},
			&cli.StringFlag{
				Name:    "queries",
				Aliases: []string{"q"},
				Usage:   "file of queries, one boolean query per line",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "file to write the ranked document id result line to",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to an optional retrix.toml tunables file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log per-query progress",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "searcher: %v\n", err)
		var usage usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	dictPath := c.String("dict-path")
	postingsPath := c.String("postings-path")
	queriesPath := c.String("queries")
	outputPath := c.String("output")
	if dictPath == "" || postingsPath == "" || queriesPath == "" || outputPath == "" {
		_ = cli.ShowAppHelp(c)
		return usageError{"missing required flag -d/-dict-path, -p/-postings-path, -q/-queries, or -o/-output"}
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := tracelog.New("searcher: ", c.Bool("verbose"))

	// The document directory is recovered from the run record the
	// indexer persisted alongside the dictionary (spec.md section 6).
	recordPath := filepath.Join(filepath.Dir(dictPath), runRecordName)
	record, err := runrecord.Read(recordPath)
	if err != nil {
		return fmt.Errorf("reading run record %s: %w", recordPath, err)
	}

	lengthsPath := record.LengthsPath
	if lengthsPath == "" {
		lengthsPath = filepath.Join(filepath.Dir(dictPath), normsfile.DefaultName)
	}

	tables, err := dictionary.ReadAll(dictPath)
	if err != nil {
		return fmt.Errorf("reading dictionary: %w", err)
	}
	if len(tables) < len(types.Models) {
		return fmt.Errorf("dictionary %s is missing one or more model sections", dictPath)
	}

	pr, err := postings.Open(postingsPath)
	if err != nil {
		return fmt.Errorf("opening postings file: %w", err)
	}
	defer pr.Close()

	norms, err := normsfile.ReadAll(lengthsPath)
	if err != nil {
		return fmt.Errorf("reading lengths file: %w", err)
	}
	if len(norms) < len(types.Models) {
		return fmt.Errorf("lengths file %s is missing one or more model sections", lengthsPath)
	}

	unigramCtx := &vsm.Context{Dict: tables[types.ModelUnigram], Postings: pr, Norms: norms[types.ModelUnigram]}
	bigramCtx := &vsm.Context{Dict: tables[types.ModelBigram], Postings: pr, Norms: norms[types.ModelBigram]}

	docSrc := corpus.PlainTextSource{}
	files, err := corpus.Discover(record.DirDoc, corpus.Options{})
	if err != nil {
		return fmt.Errorf("discovering corpus for query expansion: %w", err)
	}
	paths := make(map[types.DocID]string, len(files))
	for _, f := range files {
		paths[f.ID] = f.Path
	}

	expander := &expand.Expander{
		Unigram: unigramCtx,
		Bigram:  bigramCtx,
		Config:  cfg.Expansion,
		Docs:    docSrc,
		Paths:   paths,
	}

	in, err := os.Open(queriesPath)
	if err != nil {
		return fmt.Errorf("opening queries file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()
	bw := bufio.NewWriter(out)
	defer bw.Flush()

	// spec.md section 5: "Output file. A single line" — only the last
	// non-empty query line in the file determines the result, matching
	// original_source/search.py's handle_boolean_query loop, which
	// overwrites its result variable on every non-blank line and writes
	// it once after the loop ends.
	scanner := bufio.NewScanner(in)
	lineNum := 0
	var results []types.DocID
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		results = expander.Search(line)
		log.Infof("query %d: %d results", lineNum, len(results))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries file: %w", err)
	}

	if err := writeResultLine(bw, results); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return bw.Flush()
}

func writeResultLine(w *bufio.Writer, ids []types.DocID) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	_, err := w.WriteString(strings.Join(parts, " ") + "\n")
	return err
}
