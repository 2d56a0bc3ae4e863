// Package digest maps words onto the fixed 256-bucket partition used by the
// corpus data files, providing the routing half of every lookup.
//
// # Overview
//
// The corpus is too large to load whole, so it is split into 256 shards. A
// word's shard is chosen by hashing: the word is lowercased, MD5-hashed, and
// the 32-character hex digest is split into a 2-character bucket id and a
// 30-character residual key.
//
//	word "computer"
//	   │ lowercase + MD5
//	   ▼
//	df53ca268240ca76670c8566ee54568a
//	├┘└────────────┬───────────────┘
//	bucket "df"    residual key
//
// The bucket id names the shard file holding the word's record; the residual
// key is the lookup key within that file. Because MD5 distributes inputs
// uniformly, the 256 shards end up roughly equal in size.
//
// # Stability
//
// The digest scheme is a data-format contract shared with the offline build
// process that produced the shard files. Changing the hash function, the
// normalization, or the split point would orphan every published data file,
// so all three are fixed constants of this package.
//
// # Determinism
//
// Sum is a pure function: equal inputs (after lowercasing) always produce
// equal outputs, across calls, processes, and platforms. There are no error
// conditions; any string, including the empty string, hashes cleanly.
//
// # See Also
//
// Related packages:
//   - internal/shard: the record format keyed by residual keys
//   - internal/store: loads and caches the shard a bucket id names
package digest
