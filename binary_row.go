package paimon

import (
	"bytes"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/cpu"

	"github.com/segmentio/paimon-go/internal/unsafecast"
	"github.com/segmentio/paimon-go/murmur3"
)

// RowKind is the change type stored in the header byte of binary rows.
type RowKind byte

const (
	Insert RowKind = iota
	UpdateBefore
	UpdateAfter
	Delete
)

func (k RowKind) String() string {
	switch k {
	case Insert:
		return "+I"
	case UpdateBefore:
		return "-U"
	case UpdateAfter:
		return "+U"
	case Delete:
		return "-D"
	default:
		return "RowKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// BinaryRow is a read-only view of a row in the binary layout produced by
// RowEncoder.
//
// Accessors do not validate that the column at the given position was
// written with a matching type, the caller is expected to know the row type.
type BinaryRow struct {
	arity     int
	nullBytes int
	data      []byte
}

// NewBinaryRow returns a view of data as a row of the given arity. The data is
// not copied.
func NewBinaryRow(arity int, data []byte) (BinaryRow, error) {
	if arity < 0 {
		return BinaryRow{}, errors.Newf("paimon: negative row arity: %d", arity)
	}
	nullBytes := nullBitsSizeInBytes(arity)
	if fixedSize := nullBytes + arity*slotSize; len(data) < fixedSize {
		return BinaryRow{}, errors.Newf("paimon: binary row of arity %d must be at least %d bytes, got %d", arity, fixedSize, len(data))
	}
	return BinaryRow{arity: arity, nullBytes: nullBytes, data: data}, nil
}

func (r BinaryRow) Arity() int    { return r.arity }
func (r BinaryRow) Size() int     { return len(r.data) }
func (r BinaryRow) Bytes() []byte { return r.data }

// RowKind returns the change type stored in the header byte.
func (r BinaryRow) RowKind() RowKind { return RowKind(r.data[0]) }

// HashCode returns the hash of the row, see RowEncoder.HashCode.
func (r BinaryRow) HashCode() int32 { return murmur3.HashWords(r.data, DefaultSeed) }

// Bucket returns the bucket of the row in a table of numBuckets buckets.
func (r BinaryRow) Bucket(numBuckets int32) int32 { return BucketOf(r.HashCode(), numBuckets) }

// Equal returns true if r and s have the same arity and bytes.
func (r BinaryRow) Equal(s BinaryRow) bool {
	return r.arity == s.arity && bytes.Equal(r.data, s.data)
}

// IsNullAt reports whether the column at pos is null.
func (r BinaryRow) IsNullAt(pos int) bool {
	r.checkPos(pos)
	return isNullAt(r.data, pos)
}

func (r BinaryRow) Bool(pos int) bool       { return r.slot(pos)[0] != 0 }
func (r BinaryRow) Int8(pos int) int8       { return int8(r.slot(pos)[0]) }
func (r BinaryRow) Int16(pos int) int16     { return int16(nativeEndian.Uint16(r.slot(pos))) }
func (r BinaryRow) Int32(pos int) int32     { return int32(nativeEndian.Uint32(r.slot(pos))) }
func (r BinaryRow) Int64(pos int) int64     { return int64(nativeEndian.Uint64(r.slot(pos))) }
func (r BinaryRow) Float32(pos int) float32 { return math.Float32frombits(nativeEndian.Uint32(r.slot(pos))) }
func (r BinaryRow) Float64(pos int) float64 { return math.Float64frombits(nativeEndian.Uint64(r.slot(pos))) }

// BytesAt returns the string or byte array stored at pos. The returned slice
// aliases the row's memory.
//
// The slot is trusted to reference bytes within the row. Row validates the
// slots of rows decoded from untrusted input.
func (r BinaryRow) BytesAt(pos int) []byte {
	slot := r.slot(pos)
	word := nativeEndian.Uint64(slot)

	if mark := byte(word >> 56); mark&inlineMark != 0 {
		n := int(mark &^ inlineMark)
		if cpu.IsBigEndian {
			return slot[1 : 1+n : 1+n]
		}
		return slot[:n:n]
	}

	offset := int(word >> 32)
	length := int(uint32(word))
	return r.data[offset : offset+length : offset+length]
}

// StringAt returns the string stored at pos. The string shares the row's
// memory.
func (r BinaryRow) StringAt(pos int) string {
	return unsafecast.BytesToString(r.BytesAt(pos))
}

// Value reads the column at pos as a value of type t.
func (r BinaryRow) Value(pos int, t DataType) Value {
	if r.IsNullAt(pos) {
		return NullValue()
	}
	switch t.Kind {
	case Boolean:
		return BoolValue(r.Bool(pos))
	case TinyInt:
		return Int8Value(r.Int8(pos))
	case SmallInt:
		return Int16Value(r.Int16(pos))
	case Int:
		return Int32Value(r.Int32(pos))
	case BigInt:
		return Int64Value(r.Int64(pos))
	case Float:
		return Float32Value(r.Float32(pos))
	case Double:
		return Float64Value(r.Float64(pos))
	case String:
		return StringValue(r.StringAt(pos))
	case Bytes:
		return BytesValue(r.BytesAt(pos))
	case Date:
		return DateValue(r.Int32(pos))
	case Time:
		return TimeValue(r.Int32(pos))
	case Timestamp:
		return TimestampValue(r.Int64(pos), t.Precision)
	case Decimal:
		return DecimalValue(r.Int64(pos), t.Precision, t.Scale)
	default:
		return NullValue()
	}
}

// Row decodes all the columns of r according to t.
func (r BinaryRow) Row(t RowType) (Row, error) {
	if t.Arity() != r.arity {
		return nil, errors.Wrapf(ErrArityMismatch, "row type has %d fields, binary row has arity %d", t.Arity(), r.arity)
	}
	row := make(Row, r.arity)
	for i, f := range t.Fields {
		if (f.Type.Kind == String || f.Type.Kind == Bytes) && !r.IsNullAt(i) {
			if err := r.checkBytesAt(i); err != nil {
				return nil, err
			}
		}
		row[i] = r.Value(i, f.Type)
	}
	return row, nil
}

// checkBytesAt returns an error if the slot at pos does not reference bytes
// within the row.
func (r BinaryRow) checkBytesAt(pos int) error {
	word := nativeEndian.Uint64(r.slot(pos))

	if mark := byte(word >> 56); mark&inlineMark != 0 {
		if n := int(mark &^ inlineMark); n > maxInlineLength {
			return errors.Wrapf(ErrMalformedRow, "column %d: inline length %d exceeds %d bytes", pos, n, maxInlineLength)
		}
		return nil
	}

	offset := word >> 32
	end := offset + uint64(uint32(word))
	fixedSize := uint64(r.nullBytes + r.arity*slotSize)
	if offset < fixedSize || end > uint64(len(r.data)) {
		return errors.Wrapf(ErrMalformedRow, "column %d: variable part [%d:%d] out of range [%d:%d]", pos, offset, end, fixedSize, len(r.data))
	}
	return nil
}

func (r BinaryRow) slot(pos int) []byte {
	r.checkPos(pos)
	offset := r.nullBytes + pos*slotSize
	return r.data[offset : offset+slotSize : offset+slotSize]
}

func (r BinaryRow) checkPos(pos int) {
	if uint(pos) >= uint(r.arity) {
		panic(errors.AssertionFailedf("paimon: column index out of range [%d] with arity %d", pos, r.arity))
	}
}
