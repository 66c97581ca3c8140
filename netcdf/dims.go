package netcdf

import (
	"fmt"
	"math"
)

// Host dimension vectors list the fastest-varying axis first; storage
// start and count vectors list it last. The adapters below convert a
// host vector into a fixed-width storage vector of n entries, reversing
// the axis order and padding unspecified trailing entries with fill.

// ReverseInts reverses s in place.
func ReverseInts(s []int32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ReverseExtents reverses s in place.
func ReverseExtents(s []uint64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// DimsToInts converts a host dimension vector to a storage vector of n
// signed entries. The leading min(len, n) host entries are copied in
// reverse; missing host entries become fill, as do storage entries with
// no host counterpart. A nil value yields all fill.
func DimsToInts(v Value, n int, fill int32) ([]int32, error) {
	out := make([]int32, n)
	for i := range out {
		out[i] = fill
	}
	if v == nil {
		return out, nil
	}

	switch v := v.(type) {
	case *Ints:
		nn := min(len(v.Data), n)
		for j := 0; j < nn; j++ {
			d := v.Data[nn-1-j]
			if isMissingInt(d) {
				out[j] = fill
			} else {
				out[j] = d
			}
		}
	case *Doubles:
		nn := min(len(v.Data), n)
		for j := 0; j < nn; j++ {
			d := v.Data[nn-1-j]
			switch {
			case isMissingDouble(d):
				out[j] = fill
			case d < math.MinInt32 || math.MaxInt32 < d:
				return nil, fmt.Errorf("dimension entry %v: %w", d, ErrRange)
			default:
				out[j] = int32(d)
			}
		}
	case *Int64s:
		nn := min(len(v.Data), n)
		for j := 0; j < nn; j++ {
			d := v.Data[nn-1-j]
			switch {
			case isMissingInt64(d):
				out[j] = fill
			case d < math.MinInt32 || math.MaxInt32 < d:
				return nil, fmt.Errorf("dimension entry %v: %w", d, ErrRange)
			default:
				out[j] = int32(d)
			}
		}
	default:
		return nil, fmt.Errorf("dimension vector %T: %w", v, ErrUnsupportedType)
	}
	return out, nil
}

// DimsToExtents converts a host dimension vector to a storage vector of
// n unsigned entries. Negative 64-bit host entries keep their bit
// pattern, matching the storage layer's convention of all-ones meaning
// unlimited.
func DimsToExtents(v Value, n int, fill uint64) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		out[i] = fill
	}
	if v == nil {
		return out, nil
	}

	switch v := v.(type) {
	case *Ints:
		nn := min(len(v.Data), n)
		for j := 0; j < nn; j++ {
			d := v.Data[nn-1-j]
			if isMissingInt(d) {
				out[j] = fill
			} else {
				out[j] = uint64(d)
			}
		}
	case *Doubles:
		nn := min(len(v.Data), n)
		for j := 0; j < nn; j++ {
			d := v.Data[nn-1-j]
			switch {
			case isMissingDouble(d):
				out[j] = fill
			case d < 0 || uint64MaxDbl < d:
				return nil, fmt.Errorf("dimension entry %v: %w", d, ErrRange)
			default:
				out[j] = uint64(d)
			}
		}
	case *Int64s:
		nn := min(len(v.Data), n)
		for j := 0; j < nn; j++ {
			d := v.Data[nn-1-j]
			if isMissingInt64(d) {
				out[j] = fill
			} else {
				out[j] = uint64(d)
			}
		}
	default:
		return nil, fmt.Errorf("dimension vector %T: %w", v, ErrUnsupportedType)
	}
	return out, nil
}
