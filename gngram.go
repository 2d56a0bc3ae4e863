// Package gngram is the public lookup surface over the sharded frequency
// corpus. See doc.go for complete package documentation.
package gngram

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/gngram/internal/digest"
	"github.com/dreamware/gngram/internal/shard"
	"github.com/dreamware/gngram/internal/store"
)

// Sentinel errors surfaced by lookups, re-exported from the internal
// packages that produce them. Match with errors.Is.
var (
	// ErrMissingData indicates a required shard file does not exist.
	ErrMissingData = shard.ErrMissingData

	// ErrCorruptData indicates a shard file exists but cannot be decoded.
	ErrCorruptData = shard.ErrCorruptData

	// ErrInvalidBucket indicates a bucket id that does not name one of the
	// 256 shards.
	ErrInvalidBucket = store.ErrInvalidBucket
)

// dataDirEnv overrides the default data directory when set.
const dataDirEnv = "GNGRAM_DATA_DIR"

// FrequencyData holds the four usage statistics recorded for a word.
type FrequencyData struct {
	PeakTF int   `json:"peak_tf"` // Decade with the highest term frequency
	PeakDF int   `json:"peak_df"` // Decade with the highest document frequency
	SumTF  int64 `json:"sum_tf"`  // Total term frequency across all decades
	SumDF  int64 `json:"sum_df"`  // Total document frequency across all decades
}

// Corpus answers word-frequency lookups against the 256-shard data set
// rooted at a single directory.
//
// A Corpus owns its shard cache, so independently constructed instances are
// fully isolated; there is no package-level state. One instance is safe for
// concurrent use by any number of goroutines and should be shared rather
// than recreated per lookup, since the cache is what keeps repeat lookups
// off the disk.
type Corpus struct {
	store *store.Store
}

// New creates a Corpus reading shard files from dataDir. No I/O happens
// until the first lookup.
func New(dataDir string) *Corpus {
	return &Corpus{store: store.New(dataDir)}
}

// DefaultDataDir returns the conventional location of the shard files: the
// GNGRAM_DATA_DIR environment variable if set, otherwise a gngram directory
// under the user cache directory.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(dataDirEnv); dir != "" {
		return dir, nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving user cache directory")
	}
	return filepath.Join(cache, "gngram", "hashes"), nil
}

// DataDir returns the directory this corpus reads shard files from.
func (c *Corpus) DataDir() string {
	return c.store.Dir()
}

// Exists reports whether word appears in the corpus. The check is
// case-insensitive. A false result is not an error; the error return carries
// only data-installation and corruption failures.
func (c *Corpus) Exists(word string) (bool, error) {
	bucket, residual := digest.Sum(word)
	_, ok, err := c.store.Lookup(bucket, residual)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Frequency returns the usage statistics for word, or nil if the word is not
// in the corpus. The nil result is the expected outcome for non-words and is
// distinct from the error return, which carries only operational failures.
func (c *Corpus) Frequency(word string) (*FrequencyData, error) {
	bucket, residual := digest.Sum(word)
	rec, ok, err := c.store.Lookup(bucket, residual)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return recordData(rec), nil
}

// BatchFrequency looks up many words in one call, returning one entry per
// distinct input string keyed by the caller's original spelling. Entries for
// words absent from the corpus are nil.
//
// Words are grouped by bucket before any shard is touched, so each of the
// 256 shards is materialized at most once per call no matter how many words
// route to it; distinct buckets are loaded in parallel. If any touched shard
// is missing or corrupt the whole call fails with that shard's error and no
// partial results are returned.
func (c *Corpus) BatchFrequency(words []string) (map[string]*FrequencyData, error) {
	type query struct {
		word     string // Original spelling, used as the result key
		residual string
	}

	results := make(map[string]*FrequencyData, len(words))
	byBucket := make(map[string][]query)
	for _, word := range words {
		if _, seen := results[word]; seen {
			continue
		}
		results[word] = nil
		bucket, residual := digest.Sum(word)
		byBucket[bucket] = append(byBucket[bucket], query{word: word, residual: residual})
	}

	// Materialize every touched bucket up front. The store caches and
	// deduplicates the underlying reads; the errgroup only adds parallelism
	// across distinct buckets and the all-or-nothing error semantics.
	shards := make(map[string]*shard.Shard, len(byBucket))
	var mu sync.Mutex
	var g errgroup.Group
	for bucket := range byBucket {
		bucket := bucket
		g.Go(func() error {
			sh, err := c.store.Load(bucket)
			if err != nil {
				return err
			}
			mu.Lock()
			shards[bucket] = sh
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for bucket, queries := range byBucket {
		sh := shards[bucket]
		for _, q := range queries {
			if rec, ok := sh.Lookup(q.residual); ok {
				results[q.word] = recordData(rec)
			}
		}
	}
	return results, nil
}

// IsDataInstalled reports whether all 256 shard files are present in the
// data directory. It checks presence only and reads no file contents.
func (c *Corpus) IsDataInstalled() bool {
	return c.store.IsInstalled()
}

// HashFile returns the path of the shard file for the given bucket id, for
// callers that want direct access to a shard. The lookup operations do not
// use it. Returns ErrInvalidBucket for ids outside "00".."ff".
func (c *Corpus) HashFile(bucket string) (string, error) {
	return c.store.HashFile(bucket)
}

func recordData(rec shard.Record) *FrequencyData {
	return &FrequencyData{
		PeakTF: rec.PeakTF,
		PeakDF: rec.PeakDF,
		SumTF:  rec.SumTF,
		SumDF:  rec.SumDF,
	}
}
