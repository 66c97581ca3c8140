package netcdf

import (
	"fmt"
	"math"
)

// bytesToOpaque encodes a host byte array as opaque storage data
// without copying. The host value supplies size bytes per element.
func bytesToOpaque(v *Bytes, cnt uint64, size int) (*Encoded, error) {
	need := cnt * uint64(size)
	if uint64(len(v.Data)) < need {
		return nil, fmt.Errorf("have %d bytes, need %d: %w", len(v.Data), need, ErrDataLength)
	}
	return &Encoded{Bytes: v.Data[:need], Count: cnt, Owner: Borrowed}, nil
}

// allocOpaque builds the host container for an opaque read: a byte
// array with an extra fastest-varying axis of size bytes per element.
// A scalar keeps that axis as its only dimension. The raw storage bytes
// land directly in the host array, so no populate step is needed.
func allocOpaque(ndim int, extents []uint64, size int) (*Bytes, error) {
	var cnt uint64
	var shape []int
	switch {
	case ndim > 0:
		cnt = Length(ndim, extents)
		rev, err := hostShape(ndim, extents)
		if err != nil {
			return nil, err
		}
		shape = append([]int{size}, rev...)
	case ndim < 0:
		cnt = extents[0]
		if cnt > math.MaxInt32 {
			return nil, fmt.Errorf("host array dimension %d exceeds range of int: %w", cnt, ErrDataLength)
		}
		shape = []int{size, int(cnt)}
	default:
		cnt = 1
		shape = []int{size}
	}

	total := cnt * uint64(size)
	if total > math.MaxInt32 {
		return nil, fmt.Errorf("host array length %d exceeds range of int: %w", total, ErrDataLength)
	}
	return &Bytes{Data: make([]byte, total), Dims: shape}, nil
}
