// Package unsafecast exposes zero-copy conversions between strings and byte
// slices.
//
// The functions in this package are only safe to use when the caller never
// mutates the memory shared by the input and output values.
package unsafecast

import "unsafe"

// StringToBytes returns a byte slice sharing the memory of s.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString returns a string sharing the memory of b.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
