package paimon

import "github.com/segmentio/paimon-go/murmur3"

// Hash returns the Paimon hash of data, mixing the trailing bytes when the
// length of data is not a multiple of 4.
func Hash(data []byte) int32 { return murmur3.Hash(data, DefaultSeed) }

// HashWords returns the Paimon hash of data as computed for binary rows. Only
// whole 4 byte words are mixed; see murmur3.HashWords.
func HashWords(data []byte) int32 { return murmur3.HashWords(data, DefaultSeed) }

// BucketOf returns the bucket that a row with the given hash is assigned to
// in a table with numBuckets buckets, which is abs(hash % numBuckets).
//
// A bucket count of zero or less yields bucket 0 so that misconfigured tables
// still route their rows somewhere.
func BucketOf(hash, numBuckets int32) int32 {
	if numBuckets <= 0 {
		return 0
	}
	bucket := hash % numBuckets
	if bucket < 0 {
		bucket = -bucket
	}
	return bucket
}

// Bucket returns the bucket of data hashed with Hash.
func Bucket(data []byte, numBuckets int32) int32 {
	return BucketOf(Hash(data), numBuckets)
}

// BucketWords returns the bucket of data hashed with HashWords.
func BucketWords(data []byte, numBuckets int32) int32 {
	return BucketOf(HashWords(data), numBuckets)
}
