// Package store manages the set of 256 shard files backing the frequency
// corpus, loading each shard lazily and caching it for the process lifetime.
//
// # Overview
//
// The store sits between the lookup engine and the shard codec:
//
//	┌──────────────────────────────────────┐
//	│               Store                  │
//	├──────────────────────────────────────┤
//	│  dir: data directory                 │
//	│                                      │
//	│  buckets map                         │
//	│    "00" ─▶ entry{shard: nil}         │  unloaded
//	│    "df" ─▶ entry{shard: *Shard}      │  loaded, immutable
//	│    ...                               │
//	└──────────────────────────────────────┘
//	         │ first request per bucket
//	         ▼
//	    <dir>/<bucket>.parquet  (shard.Load)
//
// # Caching Discipline
//
// The cache is unbounded and append-only: at most 256 entries can ever exist,
// and a loaded shard (~430KB) is retained until the process exits. With the
// whole corpus around 110MB at full residency, an eviction policy would buy
// nothing, so there is none.
//
// A bucket whose load fails is NOT cached. Failures can be transient (a file
// mid-download, a permissions hiccup being fixed), so the next request for
// that bucket attempts the read again.
//
// # Concurrency Model
//
// One Store instance is meant to be shared by all callers in a process.
//
// Read path: fetching an already-loaded shard takes only an RLock on its
// bucket entry, so concurrent readers never block each other.
//
// Load path: each bucket has its own lock, so first-time loads of different
// buckets proceed in parallel, while racing first-time loads of the same
// bucket collapse to a single file read. One loader wins; the rest wait and
// receive its result.
//
// Shards themselves are immutable after loading and need no further
// synchronization.
//
// # See Also
//
// Related packages:
//   - internal/shard: file format, decoding, and the error taxonomy
//   - internal/digest: bucket id derivation and enumeration
package store
