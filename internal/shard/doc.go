// Package shard implements the on-disk unit of the frequency corpus: one
// immutable, parquet-encoded table of word records for a single hash bucket.
//
// # Overview
//
// The corpus is partitioned into 256 shards by the leading two hex characters
// of each word's digest (see internal/digest). A shard file holds every known
// word whose digest starts with its bucket id, keyed by the remaining 30
// digest characters (the residual key). Shards are produced once by an
// offline build process and are strictly read-only at runtime.
//
// # File Format
//
// Each shard is a parquet file with exactly five columns:
//
//	┌──────────┬────────┬─────────────────────────────────────┐
//	│ Column   │ Type   │ Meaning                             │
//	├──────────┼────────┼─────────────────────────────────────┤
//	│ hash     │ utf8   │ residual key, 30 hex chars, unique  │
//	│ peak_tf  │ int64  │ decade with highest term frequency  │
//	│ peak_df  │ int64  │ decade with highest doc frequency   │
//	│ sum_tf   │ int64  │ total term frequency, all decades   │
//	│ sum_df   │ int64  │ total document frequency            │
//	└──────────┴────────┴─────────────────────────────────────┘
//
// A shard file is roughly 430KB and holds on the order of 19,500 rows; the
// full 256-file corpus is about 110MB and 5 million words.
//
// # Loading
//
// Load decodes a shard file into an in-memory Shard. The schema is validated
// once, up front: a missing, extra, duplicated, or retyped column fails the
// load rather than deferring a type error to some later row access. Row
// values are validated as they are indexed: residual keys must have the
// contract length and must be unique within the file. The build process
// guarantees uniqueness; the loader verifies it anyway, because a duplicate
// means the file cannot be trusted.
//
// Two failures are distinguished for callers:
//
//   - ErrMissingData: the file does not exist. The data set was never
//     installed, or only partially.
//   - ErrCorruptData: the file exists but is not a well-formed shard.
//
// # Immutability
//
// A loaded Shard never changes. Any number of goroutines may call Lookup
// concurrently without synchronization.
//
// # Writing
//
// WriteFile is the encoder half of the codec. The runtime lookup path never
// writes; the writer exists for the offline build tooling and for tests,
// which build fixture shards with it instead of checking in binary files.
//
// # See Also
//
// Related packages:
//   - internal/digest: produces bucket ids and residual keys
//   - internal/store: caches loaded shards for the process lifetime
package shard
