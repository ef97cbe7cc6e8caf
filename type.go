package paimon

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind values represent the logical types of columns in binary rows.
type Kind int8

const (
	Boolean Kind = iota + 1
	TinyInt
	SmallInt
	Int
	BigInt
	Float
	Double
	String
	Bytes
	Date
	Time
	Timestamp
	Decimal
)

var kindNames = [...]string{
	Boolean:   "BOOLEAN",
	TinyInt:   "TINYINT",
	SmallInt:  "SMALLINT",
	Int:       "INT",
	BigInt:    "BIGINT",
	Float:     "FLOAT",
	Double:    "DOUBLE",
	String:    "STRING",
	Bytes:     "BYTES",
	Date:      "DATE",
	Time:      "TIME",
	Timestamp: "TIMESTAMP",
	Decimal:   "DECIMAL",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

const (
	// Timestamps up to this precision are stored as milliseconds in the
	// fixed part of rows.
	MaxCompactTimestampPrecision = 3
	// Decimals up to this precision are stored as unscaled longs in the
	// fixed part of rows.
	MaxCompactDecimalPrecision = 18

	defaultTimestampPrecision = 6
	defaultDecimalPrecision   = 10
)

// DataType describes the type of a column.
type DataType struct {
	Kind      Kind
	Precision int
	Scale     int
	NotNull   bool
}

// TypeOf returns the nullable type of the given kind, with the default
// precision and scale for timestamps and decimals.
func TypeOf(kind Kind) DataType {
	switch kind {
	case Timestamp:
		return TimestampType(defaultTimestampPrecision)
	case Decimal:
		return DecimalType(defaultDecimalPrecision, 0)
	default:
		return DataType{Kind: kind}
	}
}

// TimestampType returns a timestamp type with the given fractional seconds
// precision.
func TimestampType(precision int) DataType {
	return DataType{Kind: Timestamp, Precision: precision}
}

// DecimalType returns a decimal type of the given precision and scale.
func DecimalType(precision, scale int) DataType {
	return DataType{Kind: Decimal, Precision: precision, Scale: scale}
}

// Required returns a copy of t which does not accept null values.
func (t DataType) Required() DataType {
	t.NotNull = true
	return t
}

// Compact reports whether values of t fit in the 8 bytes of a fixed slot.
// Only timestamps and decimals may fail this test.
func (t DataType) Compact() bool {
	switch t.Kind {
	case Timestamp:
		return t.Precision <= MaxCompactTimestampPrecision
	case Decimal:
		return t.Precision <= MaxCompactDecimalPrecision
	default:
		return true
	}
}

func (t DataType) String() string {
	s := t.Kind.String()
	switch t.Kind {
	case Timestamp:
		s += "(" + strconv.Itoa(t.Precision) + ")"
	case Decimal:
		s += "(" + strconv.Itoa(t.Precision) + ", " + strconv.Itoa(t.Scale) + ")"
	}
	if t.NotNull {
		s += " NOT NULL"
	}
	return s
}

// ParseDataType parses a SQL type name such as "INT", "BIGINT NOT NULL",
// "VARCHAR(20)", "DECIMAL(10, 2)" or "TIMESTAMP(3)".
//
// Length parameters of character and binary types are accepted and ignored
// since they do not affect the binary representation.
func ParseDataType(s string) (DataType, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	notNull := false

	if rest, ok := strings.CutSuffix(text, "NOT NULL"); ok {
		text, notNull = strings.TrimSpace(rest), true
	}

	name, params := text, []int(nil)
	if i := strings.IndexByte(text, '('); i >= 0 {
		if !strings.HasSuffix(text, ")") {
			return DataType{}, errors.Wrapf(ErrUnsupportedType, "%q", s)
		}
		name = strings.TrimSpace(text[:i])
		for _, p := range strings.Split(text[i+1:len(text)-1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return DataType{}, errors.Wrapf(ErrUnsupportedType, "%q: %v", s, err)
			}
			params = append(params, n)
		}
	}

	var t DataType
	switch name {
	case "BOOLEAN", "BOOL":
		t = DataType{Kind: Boolean}
	case "TINYINT":
		t = DataType{Kind: TinyInt}
	case "SMALLINT":
		t = DataType{Kind: SmallInt}
	case "INT", "INTEGER":
		t = DataType{Kind: Int}
	case "BIGINT":
		t = DataType{Kind: BigInt}
	case "FLOAT":
		t = DataType{Kind: Float}
	case "DOUBLE":
		t = DataType{Kind: Double}
	case "STRING", "CHAR", "VARCHAR":
		t = DataType{Kind: String}
	case "BYTES", "BINARY", "VARBINARY":
		t = DataType{Kind: Bytes}
	case "DATE":
		t = DataType{Kind: Date}
	case "TIME":
		t = DataType{Kind: Time}
	case "TIMESTAMP":
		t = TimestampType(defaultTimestampPrecision)
		if len(params) > 0 {
			t.Precision = params[0]
		}
	case "DECIMAL", "NUMERIC":
		t = DecimalType(defaultDecimalPrecision, 0)
		if len(params) > 0 {
			t.Precision = params[0]
		}
		if len(params) > 1 {
			t.Scale = params[1]
		}
	default:
		return DataType{}, errors.Wrapf(ErrUnsupportedType, "%q", s)
	}

	if len(params) > 2 || (t.Kind != Decimal && len(params) > 1) {
		return DataType{}, errors.Wrapf(ErrUnsupportedType, "%q: too many type parameters", s)
	}
	t.NotNull = notNull
	return t, nil
}

// Field is a named column of a row type.
type Field struct {
	Name string
	Type DataType
}

// RowType is the ordered list of fields making up a row.
type RowType struct {
	Fields []Field
}

// NewRowType constructs a row type from the given fields.
func NewRowType(fields ...Field) RowType {
	return RowType{Fields: fields}
}

// Arity returns the number of fields in t.
func (t RowType) Arity() int { return len(t.Fields) }

// FieldIndex returns the position of the field with the given name, or -1 if
// no such field exists.
func (t RowType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldNames returns the names of the fields of t.
func (t RowType) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Project returns the row type made of the named fields, in the order of
// names, along with their positions in t.
func (t RowType) Project(names ...string) (RowType, []int, error) {
	projection := RowType{Fields: make([]Field, len(names))}
	indexes := make([]int, len(names))

	for i, name := range names {
		j := t.FieldIndex(name)
		if j < 0 {
			return RowType{}, nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
		}
		projection.Fields[i] = t.Fields[j]
		indexes[i] = j
	}

	return projection, indexes, nil
}

func (t RowType) String() string {
	s := new(strings.Builder)
	for i, f := range t.Fields {
		if i != 0 {
			s.WriteString(", ")
		}
		s.WriteString(f.Name)
		s.WriteString(" ")
		s.WriteString(f.Type.String())
	}
	return s.String()
}

// ParseRowType parses a comma separated list of "name TYPE" declarations,
// for example "id BIGINT NOT NULL, name STRING, price DECIMAL(10, 2)".
func ParseRowType(s string) (RowType, error) {
	var t RowType

	for _, decl := range splitTopLevel(s) {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, typ, ok := strings.Cut(decl, " ")
		if !ok {
			return RowType{}, errors.Newf("paimon: missing type in field declaration %q", decl)
		}
		dataType, err := ParseDataType(typ)
		if err != nil {
			return RowType{}, errors.Wrapf(err, "field %q", name)
		}
		t.Fields = append(t.Fields, Field{Name: name, Type: dataType})
	}

	return t, nil
}

// splitTopLevel splits s on commas which are not enclosed in parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}
