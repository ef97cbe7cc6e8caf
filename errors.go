package paimon

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidConfiguration is returned when options carry invalid values.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTypeMismatch is returned when a value does not match the type of
	// the column it is written to.
	ErrTypeMismatch = errors.New("value does not match column type")

	// ErrUnsupportedType is returned when a data type has no binary row
	// representation in this package, or when an external schema cannot be
	// mapped to a row type.
	ErrUnsupportedType = errors.New("unsupported data type")

	// ErrNotCompact is returned when writing a timestamp or decimal whose
	// precision requires the non-compact representation.
	ErrNotCompact = errors.New("precision requires a non-compact representation")

	// ErrUnknownColumn is returned when a column name cannot be resolved.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidLiteral is returned when a literal cannot be parsed as a value
	// of the requested type.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrArityMismatch is returned when a row carries a different number of
	// values than its row type has fields.
	ErrArityMismatch = errors.New("row arity mismatch")

	// ErrMalformedRow is returned when a binary row references bytes outside
	// of its buffer.
	ErrMalformedRow = errors.New("malformed binary row")

	// ErrTooManyRows is returned when a row ordinal does not fit in a
	// BucketSet.
	ErrTooManyRows = errors.New("too many rows")
)
