package netcdf

import (
	"fmt"
	"math"
)

// Host missing-value sentinels. Doubles use NaN.
const (
	MissingInt   int32 = math.MinInt32
	MissingInt64 int64 = math.MinInt64
)

func isMissingInt(v int32) bool      { return v == MissingInt }
func isMissingInt64(v int64) bool    { return v == MissingInt64 }
func isMissingDouble(v float64) bool { return math.IsNaN(v) }

// Value is a host-side container. Shape follows host axis order
// (fastest-varying first); a nil shape means a flat vector, or a scalar
// when the length is 1 and the value was requested with zero
// dimensions.
type Value interface {
	// Len returns the number of elements.
	Len() int
	// Shape returns the host-order dimension sizes, nil for flat
	// vectors and scalars.
	Shape() []int
}

// Ints is a host array of native integers.
type Ints struct {
	Data []int32
	Dims []int
}

// Doubles is a host array of double-precision floats.
type Doubles struct {
	Data []float64
	Dims []int
}

// Int64s is a host array of 64-bit integers, the host representation of
// the storage 64-bit types when native-width integers are requested.
type Int64s struct {
	Data []int64
	Dims []int
}

// Strings is a host array of strings.
type Strings struct {
	Data []string
	Dims []int
}

// Bytes is a host array of raw bytes.
type Bytes struct {
	Data []byte
	Dims []int
}

// Factor is a categorical host array: 1-based codes into Levels, with
// MissingInt marking unset elements.
type Factor struct {
	Codes  []int32
	Levels []string
	Dims   []int
}

// List is a host sequence of values. Names, when non-nil, keys the
// items; compound conversion requires it.
type List struct {
	Items []Value
	Names []string
	Dims  []int
}

func (v *Ints) Len() int    { return len(v.Data) }
func (v *Doubles) Len() int { return len(v.Data) }
func (v *Int64s) Len() int  { return len(v.Data) }
func (v *Strings) Len() int { return len(v.Data) }
func (v *Bytes) Len() int   { return len(v.Data) }
func (v *Factor) Len() int  { return len(v.Codes) }
func (v *List) Len() int    { return len(v.Items) }

func (v *Ints) Shape() []int    { return v.Dims }
func (v *Doubles) Shape() []int { return v.Dims }
func (v *Int64s) Shape() []int  { return v.Dims }
func (v *Strings) Shape() []int { return v.Dims }
func (v *Bytes) Shape() []int   { return v.Dims }
func (v *Factor) Shape() []int  { return v.Dims }
func (v *List) Shape() []int    { return v.Dims }

// ShapeVector as ndim requests a flat host vector of extents[0]
// elements with no shape, as distinct from ndim == 0 which is a scalar.
const ShapeVector = -1

// Length returns the element count implied by ndim leading extents.
// A negative ndim means a flat vector of extents[0] elements.
func Length(ndim int, extents []uint64) uint64 {
	if ndim < 0 {
		ndim = 1
	}
	length := uint64(1)
	for i := 0; i < ndim; i++ {
		length *= extents[i]
	}
	return length
}

// LengthOfCount returns the product of a host count vector. An empty or
// nil value is a scalar count of 1. Missing entries are an error.
func LengthOfCount(v Value) (uint64, error) {
	if v == nil {
		return 1, nil
	}
	length := uint64(1)
	switch v := v.(type) {
	case *Ints:
		for _, n := range v.Data {
			if isMissingInt(n) {
				return 0, fmt.Errorf("count vector: %w", ErrMissingValue)
			}
			length *= uint64(n)
		}
	case *Doubles:
		for _, n := range v.Data {
			if isMissingDouble(n) || math.IsInf(n, 0) {
				return 0, fmt.Errorf("count vector: %w", ErrMissingValue)
			}
			length *= uint64(n)
		}
	case *Int64s:
		for _, n := range v.Data {
			if isMissingInt64(n) {
				return 0, fmt.Errorf("count vector: %w", ErrMissingValue)
			}
			length *= uint64(n)
		}
	default:
		return 0, fmt.Errorf("count vector: %w", ErrUnsupportedType)
	}
	return length, nil
}
