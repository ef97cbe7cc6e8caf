package paimon

import (
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
)

// MaxBucketSetRows is the number of rows a BucketSet can identify. Ordinals
// are stored as 32 bits integers.
const MaxBucketSetRows = math.MaxUint32 + 1

// BucketSet records which rows were assigned to which buckets. Rows are
// identified by their ordinal in the input they were read from, which limits
// inputs to MaxBucketSetRows rows.
type BucketSet struct {
	buckets map[int32]*roaring.Bitmap
}

// NewBucketSet constructs an empty bucket set.
func NewBucketSet() *BucketSet {
	return &BucketSet{buckets: make(map[int32]*roaring.Bitmap)}
}

// Add records that the row at the given ordinal belongs to bucket.
func (s *BucketSet) Add(bucket int32, row uint32) {
	b := s.buckets[bucket]
	if b == nil {
		b = roaring.New()
		s.buckets[bucket] = b
	}
	b.Add(row)
}

// AddOrdinal is like Add but takes the row ordinal as read from an input, and
// returns an error wrapping ErrTooManyRows if it cannot be represented.
func (s *BucketSet) AddOrdinal(bucket int32, ordinal int64) error {
	if ordinal < 0 || ordinal >= MaxBucketSetRows {
		return errors.Wrapf(ErrTooManyRows, "row ordinal %d out of range [0:%d)", ordinal, int64(MaxBucketSetRows))
	}
	s.Add(bucket, uint32(ordinal))
	return nil
}

// Buckets returns the buckets holding at least one row, in ascending order.
func (s *BucketSet) Buckets() []int32 {
	buckets := make([]int32, 0, len(s.buckets))
	for bucket := range s.buckets {
		buckets = append(buckets, bucket)
	}
	slices.Sort(buckets)
	return buckets
}

// Contains reports whether the row at the given ordinal belongs to bucket.
func (s *BucketSet) Contains(bucket int32, row uint32) bool {
	b := s.buckets[bucket]
	return b != nil && b.Contains(row)
}

// Rows returns the ordinals of rows in bucket, in ascending order.
func (s *BucketSet) Rows(bucket int32) []uint32 {
	if b := s.buckets[bucket]; b != nil {
		return b.ToArray()
	}
	return nil
}

// Count returns the number of rows in bucket.
func (s *BucketSet) Count(bucket int32) uint64 {
	if b := s.buckets[bucket]; b != nil {
		return b.GetCardinality()
	}
	return 0
}

// Len returns the total number of rows in s.
func (s *BucketSet) Len() uint64 {
	n := uint64(0)
	for _, b := range s.buckets {
		n += b.GetCardinality()
	}
	return n
}

// Merge adds the rows of other to s.
func (s *BucketSet) Merge(other *BucketSet) {
	for bucket, b := range other.buckets {
		if mine := s.buckets[bucket]; mine != nil {
			mine.Or(b)
		} else {
			s.buckets[bucket] = b.Clone()
		}
	}
}
