// Package corpus discovers document files in a directory and extracts
// their content. Extraction itself is the external collaborator spec.md
// section 1 excludes from scope; DocumentSource is the seam, and
// PlainTextSource is a minimal concrete implementation sufficient to drive
// the indexer end to end.
package corpus

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	retrixerrors "github.com/standardbeagle/retrix/internal/errors"
	"github.com/standardbeagle/retrix/internal/types"
)

// DocumentSource extracts a document's content given its file path. A
// real deployment swaps in a format-specific extractor (e.g. the XML/Solr
// export original_source/index.py reads); retrix ships only the
// plain-text case.
type DocumentSource interface {
	Extract(path string) (string, error)
}

// PlainTextSource reads a document's content verbatim from a UTF-8 text
// file.
type PlainTextSource struct{}

func (PlainTextSource) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// File pairs a discovered document id with its source file path.
type File struct {
	ID   types.DocID
	Path string
}

// Options configures document discovery.
type Options struct {
	Include []string // doublestar glob patterns; empty means "all files"
	Exclude []string // doublestar glob patterns, applied after Include
}

// Discover walks dir recursively (os.walk in original_source/index.py
// descends subdirectories too), numbering documents by the integer value
// of each file's base name (minus extension) and returning them sorted by
// that id, so block ids correspond to ascending document-id ranges, per
// spec.md section 5's ordering requirement. Files whose base name is not
// an integer are skipped silently: they are left out of the result and
// not reported to the caller.
func Discover(dir string, opts Options) ([]File, error) {
	var files []File
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if len(opts.Include) > 0 && !matchesAny(opts.Include, rel) {
			return nil
		}
		if matchesAny(opts.Exclude, rel) {
			return nil
		}
		id, ok := parseDocID(path)
		if !ok {
			return nil
		}
		files = append(files, File{ID: id, Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// parseDocID extracts the integer document id from a file's base name,
// e.g. "42.txt" -> 42. Files that don't follow this convention are not
// part of the corpus.
func parseDocID(path string) (types.DocID, bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0, false
	}
	return types.DocID(n), true
}

// Load extracts every file's content via src, skipping (and reporting via
// the returned slice of errors) any file that fails extraction — a single
// unparseable document must not abort the run (spec.md 4.1).
func Load(files []File, src DocumentSource) ([]types.Document, []*retrixerrors.CorpusError) {
	docs := make([]types.Document, 0, len(files))
	var errs []*retrixerrors.CorpusError
	for _, f := range files {
		content, err := src.Extract(f.Path)
		if err != nil {
			errs = append(errs, retrixerrors.NewCorpusError(f.Path, err))
			continue
		}
		docs = append(docs, types.Document{ID: f.ID, Content: content})
	}
	return docs, errs
}
