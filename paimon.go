// Package paimon encodes rows in the binary layout of Apache Paimon tables and
// computes the hashes and fixed buckets Paimon derives from them.
//
// The encoding and the hash must match the reference implementation bit for
// bit: writers distributing rows across the buckets of a table rely on every
// participant agreeing on the bucket of each row.
//
//	encoder := paimon.NewRowEncoder(2)
//	encoder.WriteInt64(0, 42)
//	encoder.WriteString(1, "hello world")
//	bucket := encoder.Bucket(16)
package paimon
