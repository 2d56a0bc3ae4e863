// Package digest maps words onto the 256-bucket hash partition of the corpus.
// See doc.go for complete package documentation.
package digest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// BucketLen is the number of leading digest characters that select a bucket.
	BucketLen = 2

	// ResidualLen is the number of trailing digest characters that form the
	// within-shard lookup key.
	ResidualLen = 30

	// NumBuckets is the number of partitions the corpus is split into.
	NumBuckets = 256
)

// Sum hashes a word and splits the digest into its two routing parts: the
// bucket id naming the shard that would hold the word, and the residual key
// identifying the word's record within that shard.
//
// Lookups are case-insensitive, so the word is lowercased before hashing.
// MD5 is a format contract with the prebuilt data files, not a security
// boundary.
func Sum(word string) (bucket, residual string) {
	sum := md5.Sum([]byte(strings.ToLower(word)))
	digest := hex.EncodeToString(sum[:])
	return digest[:BucketLen], digest[BucketLen:]
}

// Buckets returns all 256 bucket ids in ascending order, "00" through "ff".
func Buckets() []string {
	ids := make([]string, 0, NumBuckets)
	for i := 0; i < NumBuckets; i++ {
		ids = append(ids, fmt.Sprintf("%02x", i))
	}
	return ids
}

// ValidBucket reports whether id names one of the 256 buckets. Ids are
// lowercase hex pairs, matching the shard file naming scheme.
func ValidBucket(id string) bool {
	if len(id) != BucketLen {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
