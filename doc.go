// Package gngram provides point lookups of precomputed word-frequency
// statistics derived from a historical text corpus.
//
// # Overview
//
// Given a word, the package answers whether the word appears in the corpus
// and, if so, four integer statistics describing its usage over time: the
// decades of peak term and document frequency, and the total term and
// document frequency across all decades.
//
// The corpus (~5 million words) is prepartitioned into 256 immutable parquet
// shards by the leading byte of each word's MD5 digest, so a lookup reads at
// most one ~430KB shard instead of the full ~110MB dataset:
//
//	word ──▶ digest ──▶ (bucket id, residual key)
//	                        │
//	                        ▼
//	              shard cache ──▶ <data-dir>/<bucket>.parquet
//	                        │
//	                        ▼
//	              record, or absence
//
// # Usage
//
//	corpus := gngram.New(dataDir)
//
//	ok, err := corpus.Exists("computer")
//
//	freq, err := corpus.Frequency("computer")
//	if err != nil {
//	    // data missing or corrupt
//	}
//	if freq == nil {
//	    // word not in the corpus; not an error
//	}
//
//	results, err := corpus.BatchFrequency([]string{"alpha", "beta", "gamma"})
//
// Lookups are case-insensitive. Loaded shards are cached inside the Corpus
// for the life of the process; construct one Corpus and share it.
//
// # Errors vs Absence
//
// A word that is not in the corpus is the common case, not a failure: Exists
// returns false and Frequency returns nil, with a nil error. The error
// channel carries only operational faults, matched with errors.Is:
//
//   - ErrMissingData: a required shard file is absent; the data set was
//     never installed or only partially installed.
//   - ErrCorruptData: a shard file exists but does not decode.
//   - ErrInvalidBucket: a caller-supplied bucket id (HashFile only) is not
//     one of the 256 hex pairs.
//
// Batch lookups are all-or-nothing: if any touched shard is missing or
// corrupt the whole call fails, since results from a partially installed
// corpus would be misleading.
//
// # Data Installation
//
// Shard files are built and downloaded out of band. IsDataInstalled reports
// whether all 256 files are present; it is a cheap precondition check, not a
// per-lookup gate. DefaultDataDir returns the conventional location, which
// the GNGRAM_DATA_DIR environment variable overrides.
package gngram
