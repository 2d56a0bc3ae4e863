// Package store implements the lazy per-bucket shard cache.
// See doc.go for complete package documentation.
package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/dreamware/gngram/internal/digest"
	"github.com/dreamware/gngram/internal/shard"
)

// FileExt is the extension of the on-disk shard files.
const FileExt = ".parquet"

// ErrInvalidBucket is returned when a caller-supplied bucket id is not one of
// the 256 lowercase hex pairs.
var ErrInvalidBucket = errors.New("invalid bucket id")

// Store provides cached access to the 256 shard files in a data directory.
//
// The zero value is not usable; construct with New. A single Store is safe
// for use by any number of goroutines.
type Store struct {
	dir string // Data directory holding the shard files

	mu      sync.RWMutex            // Protects the buckets map itself
	buckets map[string]*bucketEntry // One entry per bucket ever requested
}

// bucketEntry holds the cache slot for one bucket. Its lock serializes
// first-time loads of that bucket without blocking loads of other buckets.
type bucketEntry struct {
	mu    sync.RWMutex
	shard *shard.Shard // nil until a load succeeds
}

// New creates a Store over the shard files in dir. Nothing is read until the
// first lookup; dir may even be empty or absent, in which case lookups report
// missing data.
func New(dir string) *Store {
	return &Store{
		dir:     dir,
		buckets: make(map[string]*bucketEntry, digest.NumBuckets),
	}
}

// Dir returns the data directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// HashFile returns the path of the shard file for the given bucket id. The
// file is not checked for existence. Returns ErrInvalidBucket if id does not
// name one of the 256 buckets.
func (s *Store) HashFile(id string) (string, error) {
	if !digest.ValidBucket(id) {
		return "", errors.Wrapf(ErrInvalidBucket, "%q", id)
	}
	return filepath.Join(s.dir, id+FileExt), nil
}

// IsInstalled reports whether all 256 shard files are present in the data
// directory. Only presence is checked; contents are not read or validated.
func (s *Store) IsInstalled() bool {
	for _, id := range digest.Buckets() {
		if _, err := os.Stat(filepath.Join(s.dir, id+FileExt)); err != nil {
			return false
		}
	}
	return true
}

// Load returns the shard for the given bucket, reading its file on the first
// request and serving every later request from the in-process cache.
//
// Errors from the underlying read (shard.ErrMissingData, shard.ErrCorruptData)
// are returned as-is and are not cached: a later Load of the same bucket
// retries the file.
func (s *Store) Load(bucket string) (*shard.Shard, error) {
	path, err := s.HashFile(bucket)
	if err != nil {
		return nil, err
	}
	e := s.entry(bucket)

	// Fast path: already loaded.
	e.mu.RLock()
	sh := e.shard
	e.mu.RUnlock()
	if sh != nil {
		return sh, nil
	}

	// Slow path: one loader wins the write lock and reads the file; racing
	// callers block here and pick up its result.
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shard != nil {
		return e.shard, nil
	}

	sh, err = shard.Load(path, bucket)
	if err != nil {
		return nil, err
	}
	e.shard = sh
	return sh, nil
}

// Lookup loads the shard for bucket and searches it for the given residual
// key. Absence of the key is reported through the bool, not the error; the
// error channel carries only load failures.
func (s *Store) Lookup(bucket, residual string) (shard.Record, bool, error) {
	sh, err := s.Load(bucket)
	if err != nil {
		return shard.Record{}, false, err
	}
	rec, ok := sh.Lookup(residual)
	return rec, ok, nil
}

// entry returns the cache slot for bucket, creating it on first use.
func (s *Store) entry(bucket string) *bucketEntry {
	s.mu.RLock()
	e := s.buckets[bucket]
	s.mu.RUnlock()
	if e != nil {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e = s.buckets[bucket]; e == nil {
		e = &bucketEntry{}
		s.buckets[bucket] = e
	}
	return e
}
