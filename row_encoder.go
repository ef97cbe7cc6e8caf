package paimon

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/cpu"

	"github.com/segmentio/paimon-go/internal/debug"
	"github.com/segmentio/paimon-go/internal/unsafecast"
	"github.com/segmentio/paimon-go/murmur3"
)

const (
	// Size of a fixed slot in bytes.
	slotSize = 8
	// Number of bits reserved for the row kind at the start of the null
	// bitmap.
	headerBits = 8
	// Strings and byte arrays up to this length are stored inline in their
	// fixed slot.
	maxInlineLength = 7
	// Marker bit set in the most significant byte of slots holding inline
	// values.
	inlineMark = 0x80
)

// RowEncoder builds the binary representation of rows.
//
// The layout of a row is made of three parts:
//
//   - the header byte holding the row kind, followed by one null bit per
//     column, rounded up to a multiple of 8 bytes,
//   - the fixed part, made of one 8 bytes slot per column,
//   - the variable part, which holds strings and byte arrays that do not fit
//     in 7 bytes, each padded to a multiple of 8 bytes.
//
// Values are addressed by column position and may be written in any order.
// Writing a column twice overwrites its slot but does not reclaim the space
// used in the variable part.
//
// RowEncoder values are not safe for concurrent use. Passing a position out
// of the range [0:Arity()) to any of the methods panics.
type RowEncoder struct {
	arity     int
	nullBytes int
	fixedSize int
	cursor    int
	seed      uint32
	buffer    []byte
}

// NewRowEncoder constructs an encoder for rows of the given arity.
//
// The function panics if arity is negative or the options are invalid.
func NewRowEncoder(arity int, options ...RowEncoderOption) *RowEncoder {
	if arity < 0 {
		panic(errors.AssertionFailedf("paimon: negative row arity: %d", arity))
	}
	config, err := NewRowEncoderConfig(options...)
	if err != nil {
		panic(err)
	}
	nullBytes := nullBitsSizeInBytes(arity)
	fixedSize := nullBytes + arity*slotSize
	return &RowEncoder{
		arity:     arity,
		nullBytes: nullBytes,
		fixedSize: fixedSize,
		cursor:    fixedSize,
		seed:      config.Seed,
		buffer:    make([]byte, fixedSize+config.InitialVarCapacity),
	}
}

// nullBitsSizeInBytes returns the size of the header and null bitmap of rows
// with the given arity, rounded up to whole 8 bytes words.
func nullBitsSizeInBytes(arity int) int {
	return ((arity + 63 + headerBits) / 64) * 8
}

// Arity returns the number of columns of rows built by e.
func (e *RowEncoder) Arity() int { return e.arity }

// FixedSize returns the size of the header, null bitmap and fixed part.
func (e *RowEncoder) FixedSize() int { return e.fixedSize }

// Size returns the length of the row written so far.
func (e *RowEncoder) Size() int { return e.cursor }

// Bytes returns the content of the row written so far. The returned slice
// aliases the encoder's buffer, it remains valid until the next write or call
// to Reset.
func (e *RowEncoder) Bytes() []byte { return e.buffer[:e.cursor:e.cursor] }

// Row returns a copy of the row written so far.
func (e *RowEncoder) Row() BinaryRow {
	data := make([]byte, e.cursor)
	copy(data, e.buffer)
	return BinaryRow{arity: e.arity, nullBytes: e.nullBytes, data: data}
}

// HashCode returns the hash of the row written so far.
//
// Rows are always a multiple of 8 bytes long so the hash is computed over
// whole words only.
func (e *RowEncoder) HashCode() int32 {
	return murmur3.HashWords(e.buffer[:e.cursor], e.seed)
}

// Bucket returns the bucket of the row written so far in a table with the
// given number of buckets.
func (e *RowEncoder) Bucket(numBuckets int32) int32 {
	return BucketOf(e.HashCode(), numBuckets)
}

// Reset clears the header, null bitmap and fixed part, and discards the
// variable part. Bytes of the variable part are left in the buffer and get
// overwritten by subsequent writes.
func (e *RowEncoder) Reset() {
	clear(e.buffer[:e.fixedSize])
	e.cursor = e.fixedSize
}

// IsNullAt reports whether the null bit of the column at pos is set.
func (e *RowEncoder) IsNullAt(pos int) bool {
	e.checkPos(pos)
	return isNullAt(e.buffer, pos)
}

// SetNull marks the column at pos as null and zeroes its slot.
func (e *RowEncoder) SetNull(pos int) {
	slot := e.slot(pos)
	bit := pos + headerBits
	e.buffer[bit>>3] |= 1 << uint(bit&7)
	clear(slot)
}

func (e *RowEncoder) WriteBool(pos int, value bool) {
	slot := e.slot(pos)
	if value {
		slot[0] = 1
	}
}

func (e *RowEncoder) WriteInt8(pos int, value int8) {
	e.slot(pos)[0] = byte(value)
}

func (e *RowEncoder) WriteInt16(pos int, value int16) {
	nativeEndian.PutUint16(e.slot(pos), uint16(value))
}

func (e *RowEncoder) WriteInt32(pos int, value int32) {
	nativeEndian.PutUint32(e.slot(pos), uint32(value))
}

func (e *RowEncoder) WriteInt64(pos int, value int64) {
	nativeEndian.PutUint64(e.slot(pos), uint64(value))
}

func (e *RowEncoder) WriteFloat32(pos int, value float32) {
	nativeEndian.PutUint32(e.slot(pos), math.Float32bits(value))
}

func (e *RowEncoder) WriteFloat64(pos int, value float64) {
	nativeEndian.PutUint64(e.slot(pos), math.Float64bits(value))
}

// WriteDate writes a date expressed in days since the epoch.
func (e *RowEncoder) WriteDate(pos int, days int32) { e.WriteInt32(pos, days) }

// WriteTime writes a time of day expressed in milliseconds.
func (e *RowEncoder) WriteTime(pos int, millis int32) { e.WriteInt32(pos, millis) }

// WriteTimestamp writes a timestamp expressed in milliseconds since the
// epoch. Only compact precisions (up to milliseconds) are supported.
func (e *RowEncoder) WriteTimestamp(pos int, millis int64, precision int) error {
	if precision > MaxCompactTimestampPrecision {
		return errors.Wrapf(ErrNotCompact, "TIMESTAMP(%d)", precision)
	}
	e.WriteInt64(pos, millis)
	return nil
}

// WriteDecimal writes the unscaled value of a decimal. Only compact
// precisions (up to 18 digits) are supported.
func (e *RowEncoder) WriteDecimal(pos int, unscaled int64, precision int) error {
	if precision > MaxCompactDecimalPrecision {
		return errors.Wrapf(ErrNotCompact, "DECIMAL(%d)", precision)
	}
	e.WriteInt64(pos, unscaled)
	return nil
}

// WriteString writes the UTF-8 bytes of value.
func (e *RowEncoder) WriteString(pos int, value string) {
	e.WriteBytes(pos, unsafecast.StringToBytes(value))
}

// WriteBytes writes value inline in the slot at pos when it is at most 7
// bytes long, or in the variable part otherwise.
func (e *RowEncoder) WriteBytes(pos int, value []byte) {
	if len(value) <= maxInlineLength {
		e.writeInline(pos, value)
	} else {
		e.writeVariable(pos, value)
	}
}

func (e *RowEncoder) writeInline(pos int, value []byte) {
	word := uint64(inlineMark|len(value)) << 56
	if cpu.IsBigEndian {
		for i, b := range value {
			word |= uint64(b) << ((6 - i) * 8)
		}
	} else {
		for i, b := range value {
			word |= uint64(b) << (i * 8)
		}
	}
	nativeEndian.PutUint64(e.slot(pos), word)
}

func (e *RowEncoder) writeVariable(pos int, value []byte) {
	slot := e.slot(pos)
	offset := e.cursor
	rounded := roundToNearestWord(len(value))

	if e.grow(offset + rounded) {
		slot = e.slot(pos)
	}
	n := copy(e.buffer[offset:], value)
	clear(e.buffer[offset+n : offset+rounded])

	nativeEndian.PutUint64(slot, uint64(offset)<<32|uint64(uint32(len(value))))
	e.cursor += rounded
}

// WriteValue writes v to the column at pos, setting the null bit if v is null.
func (e *RowEncoder) WriteValue(pos int, v Value) error {
	switch v.Kind() {
	case 0:
		e.SetNull(pos)
	case Boolean:
		e.WriteBool(pos, v.Bool())
	case TinyInt:
		e.WriteInt8(pos, v.Int8())
	case SmallInt:
		e.WriteInt16(pos, v.Int16())
	case Int, Date, Time:
		e.WriteInt32(pos, v.Int32())
	case BigInt:
		e.WriteInt64(pos, v.Int64())
	case Float:
		e.WriteFloat32(pos, v.Float32())
	case Double:
		e.WriteFloat64(pos, v.Float64())
	case String, Bytes:
		e.WriteBytes(pos, v.ByteArray())
	case Timestamp:
		return e.WriteTimestamp(pos, v.Int64(), v.Precision())
	case Decimal:
		return e.WriteDecimal(pos, v.Int64(), v.Precision())
	default:
		return errors.Wrapf(ErrUnsupportedType, "%s", v.Kind())
	}
	return nil
}

// WriteRow writes the values of row to the columns of the same positions.
func (e *RowEncoder) WriteRow(row Row) error {
	if len(row) != e.arity {
		return errors.Wrapf(ErrArityMismatch, "writing %d values to a row of arity %d", len(row), e.arity)
	}
	for i, v := range row {
		if err := e.WriteValue(i, v); err != nil {
			return errors.Wrapf(err, "column %d", i)
		}
	}
	return nil
}

// slot returns the 8 bytes of the fixed part holding the column at pos,
// zeroed so that narrow values leave the upper bytes clear.
func (e *RowEncoder) slot(pos int) []byte {
	e.checkPos(pos)
	offset := e.nullBytes + pos*slotSize
	slot := e.buffer[offset : offset+slotSize : offset+slotSize]
	clear(slot)
	return slot
}

func (e *RowEncoder) checkPos(pos int) {
	if uint(pos) >= uint(e.arity) {
		panic(errors.AssertionFailedf("paimon: column index out of range [%d] with arity %d", pos, e.arity))
	}
}

// grow ensures that the buffer holds at least size bytes, returning true if
// it had to be reallocated.
func (e *RowEncoder) grow(size int) bool {
	if size <= len(e.buffer) {
		return false
	}
	newSize := len(e.buffer) + len(e.buffer)/2
	if newSize < size {
		newSize = size
	}
	debug.Format("paimon: growing row buffer from %d to %d bytes", len(e.buffer), newSize)
	buffer := make([]byte, newSize)
	copy(buffer, e.buffer[:e.cursor])
	e.buffer = buffer
	return true
}

func roundToNearestWord(n int) int {
	return (n + 7) &^ 7
}

func isNullAt(data []byte, pos int) bool {
	bit := pos + headerBits
	return data[bit>>3]&(1<<uint(bit&7)) != 0
}
