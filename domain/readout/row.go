package readout

import (
	"fmt"

	"astriql/domain/core"
)

// RowKind tells whether a row holds one value or a fixed-length sub-channel array
type RowKind uint8

const (
	RowScalar RowKind = iota
	RowArray
)

func (k RowKind) String() string {
	switch k {
	case RowScalar:
		return "scalar"
	case RowArray:
		return "array"
	default:
		return fmt.Sprintf("RowKind(%d)", uint8(k))
	}
}

// Row is one event's value for a field: either a scalar or an array over sub-channels.
// The variant is fixed when the column is fetched.
type Row struct {
	kind   RowKind
	scalar float64
	values []float64
}

// Scalar builds a scalar row
func Scalar(v float64) Row {
	return Row{kind: RowScalar, scalar: v}
}

// Array builds an array row. The slice is copied.
func Array(values ...float64) Row {
	vs := make([]float64, len(values))
	copy(vs, values)
	return Row{kind: RowArray, values: vs}
}

func (r Row) Kind() RowKind { return r.kind }

func (r Row) IsArray() bool { return r.kind == RowArray }

// Width is the sub-channel count; 0 for scalar rows
func (r Row) Width() int {
	if r.kind == RowScalar {
		return 0
	}
	return len(r.values)
}

// Value returns the scalar of a scalar row
func (r Row) Value() float64 { return r.scalar }

// Element returns the 1-based sub-channel of an array row
func (r Row) Element(subChannel int) (float64, error) {
	if r.kind != RowArray || subChannel < 1 || subChannel > len(r.values) {
		return 0, core.NewSubChannelError(subChannel, r.Width())
	}
	return r.values[subChannel-1], nil
}

// Each calls fn for every value of the row in sub-channel order
func (r Row) Each(fn func(float64)) {
	if r.kind == RowScalar {
		fn(r.scalar)
		return
	}
	for _, v := range r.values {
		fn(v)
	}
}

// Column is a named field of the readout table
type Column struct {
	Name string
	Rows []Row
}

// NewColumn checks that all rows share one shape
func NewColumn(name string, rows []Row) (Column, error) {
	if len(rows) > 0 {
		kind, width := rows[0].Kind(), rows[0].Width()
		for i, r := range rows[1:] {
			if r.Kind() != kind || r.Width() != width {
				return Column{}, fmt.Errorf("%w: %s row %d is %s[%d], expected %s[%d]",
					core.ErrShapeMismatch, name, i+2, r.Kind(), r.Width(), kind, width)
			}
		}
	}
	return Column{Name: name, Rows: rows}, nil
}

// Len returns the number of rows
func (c Column) Len() int { return len(c.Rows) }

// IsArray reports whether the column is array-shaped
func (c Column) IsArray() bool {
	return len(c.Rows) > 0 && c.Rows[0].IsArray()
}

// Width returns the sub-channel count of the column, 0 for scalar or empty columns
func (c Column) Width() int {
	if len(c.Rows) == 0 {
		return 0
	}
	return c.Rows[0].Width()
}

// Head returns the first n rows; n <= 0 keeps every row
func (c Column) Head(n int) Column {
	if n <= 0 || n >= len(c.Rows) {
		return c
	}
	return Column{Name: c.Name, Rows: c.Rows[:n]}
}
