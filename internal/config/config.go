// Package config loads the indexer/searcher tunables file, an optional
// TOML document overriding a small set of performance and expansion
// parameters. Absence of the file is not an error: defaults apply.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Indexing holds the SPIMI tunables from spec.md sections 4.1/4.2.
type Indexing struct {
	BlockSize   int // documents per block; spec.md suggests 200-400
	Workers     int // 0 = auto-detect (GOMAXPROCS)
	TempDir     string
}

// Expansion holds the pseudo-relevance-feedback tunables from spec.md 4.6.
type Expansion struct {
	DocumentLimit int // QUERY_EXPANSION_DOCUMENT_LIMIT
	KeywordLimit  int // QUERY_EXPANSION_KEYWORD_LIMIT
	Enhance       int // QUERY_ENHANCE
}

// Config is the full tunables document, read from retrix.toml.
type Config struct {
	Indexing  Indexing
	Expansion Expansion
}

// Default returns the tunables spec.md's design notes settle on.
func Default() *Config {
	return &Config{
		Indexing: Indexing{
			BlockSize: 300,
			Workers:   0,
			TempDir:   "",
		},
		Expansion: Expansion{
			DocumentLimit: 10,
			KeywordLimit:  10,
			Enhance:       10,
		},
	}
}

// Load reads a TOML tunables file at path, starting from Default and
// overriding only the fields present in the file. A missing file is not an
// error — Load returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
