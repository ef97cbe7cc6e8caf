package paimon

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Binary rows store fixed-length values in the byte order of the host, the
// same way the JVM's Unsafe accessors do.
var nativeEndian binary.ByteOrder = nativeByteOrder()

func nativeByteOrder() binary.ByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
