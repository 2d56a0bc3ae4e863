// Package shard implements the immutable per-bucket record table of the
// frequency corpus. See doc.go for complete package documentation.
package shard

import (
	"github.com/pkg/errors"
)

// ErrMissingData is returned when a shard file does not exist on disk,
// meaning the data set was never installed or was only partially installed.
var ErrMissingData = errors.New("shard file missing; data not installed")

// ErrCorruptData is returned when a shard file exists but cannot be decoded
// into the expected five-column schema.
var ErrCorruptData = errors.New("shard file corrupt")

// Record holds the precomputed frequency statistics for one word.
//
// The word itself is not stored. A record is addressed only by the residual
// key, the 30 trailing hex characters of the word's digest; the leading two
// characters are implied by the shard the record lives in.
type Record struct {
	// ResidualKey uniquely identifies the record within its shard.
	// Uniqueness is guaranteed by the build process and re-verified at load.
	ResidualKey string

	PeakTF int // Decade with the highest term frequency
	PeakDF int // Decade with the highest document frequency

	SumTF int64 // Total term frequency across all decades
	SumDF int64 // Total document frequency across all decades
}

// Shard is the decoded, in-memory form of one bucket's record table.
//
// A shard is immutable once built: lookups require no synchronization and
// may run from any number of goroutines concurrently.
type Shard struct {
	bucket  string            // Owning bucket id, "00" through "ff"
	records map[string]Record // Keyed by residual key
}

// Bucket returns the id of the bucket this shard holds records for.
func (s *Shard) Bucket() string {
	return s.bucket
}

// Len returns the number of records in the shard.
func (s *Shard) Len() int {
	return len(s.records)
}

// Lookup returns the record for the given residual key. The second return
// value reports whether such a record exists; absence is the expected result
// for words outside the corpus and is not an error.
func (s *Shard) Lookup(residual string) (Record, bool) {
	rec, ok := s.records[residual]
	return rec, ok
}
