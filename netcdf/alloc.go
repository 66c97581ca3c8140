package netcdf

import (
	"fmt"
	"math"
)

// arrayKind selects the host container allocated for a read.
type arrayKind uint8

const (
	kindInt arrayKind = iota
	kindDouble
	kindInt64
	kindString
	kindRaw
	kindList
)

// hostShape converts storage-order extents to a host-order shape.
// Storage order puts the slowest-varying axis first; the host shape is
// the reverse. Extents must fit the int range.
func hostShape(ndim int, extents []uint64) ([]int, error) {
	if ndim <= 0 {
		return nil, nil
	}
	shape := make([]int, ndim)
	for i, j := 0, ndim-1; i < ndim; i, j = i+1, j-1 {
		if extents[j] > math.MaxInt32 {
			return nil, fmt.Errorf("host array dimension %d exceeds range of int: %w", j, ErrDataLength)
		}
		shape[i] = int(extents[j])
	}
	return shape, nil
}

// allocArray allocates a host container of the given kind and shape.
// ndim == 0 allocates a one-element scalar with no shape; a negative
// ndim allocates a flat vector of extents[0] elements with no shape.
func allocArray(kind arrayKind, ndim int, extents []uint64) (Value, error) {
	shape, err := hostShape(ndim, extents)
	if err != nil {
		return nil, err
	}
	n := Length(ndim, extents)
	if ndim == 0 {
		n = 1
	}
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("host array length %d exceeds range of int: %w", n, ErrDataLength)
	}

	switch kind {
	case kindInt:
		return &Ints{Data: make([]int32, n), Dims: shape}, nil
	case kindDouble:
		return &Doubles{Data: make([]float64, n), Dims: shape}, nil
	case kindInt64:
		return &Int64s{Data: make([]int64, n), Dims: shape}, nil
	case kindString:
		return &Strings{Data: make([]string, n), Dims: shape}, nil
	case kindRaw:
		return &Bytes{Data: make([]byte, n), Dims: shape}, nil
	case kindList:
		return &List{Items: make([]Value, n), Dims: shape}, nil
	default:
		return nil, fmt.Errorf("unknown host array kind %d: %w", kind, ErrUnsupportedType)
	}
}
