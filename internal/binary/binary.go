// Package binary provides low-level element codecs for in-memory netCDF
// value buffers.
//
// Storage buffers handled by the conversion engine are flat byte slices
// holding fixed-width little-endian elements. This package reads and
// writes single elements at an element index, and exposes the typed-slice
// aliasing helpers that back the in-place buffer optimization: a host
// numeric slice can lend its backing array as a raw storage buffer when
// the platform is little-endian, so conversion can run without a second
// allocation.
package binary

import (
	"encoding/binary"
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Element is the closed set of fixed-width numeric representations used
// by storage buffers.
type Element interface {
	constraints.Integer | constraints.Float
}

// nativeLittle reports whether the host stores integers little-endian.
// Computed once; the aliasing fast path is disabled on big-endian hosts.
var nativeLittle = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// NativeIsLittle reports whether typed host memory can alias a
// little-endian storage buffer directly.
func NativeIsLittle() bool { return nativeLittle }

// Size returns the encoded width in bytes of one element of type T.
func Size[T Element]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// Put encodes v at element index idx of buf.
func Put[T Element](buf []byte, idx int, v T) {
	switch v := any(v).(type) {
	case int8:
		buf[idx] = byte(v)
	case uint8:
		buf[idx] = v
	case int16:
		binary.LittleEndian.PutUint16(buf[idx*2:], uint16(v))
	case uint16:
		binary.LittleEndian.PutUint16(buf[idx*2:], v)
	case int32:
		binary.LittleEndian.PutUint32(buf[idx*4:], uint32(v))
	case uint32:
		binary.LittleEndian.PutUint32(buf[idx*4:], v)
	case int64:
		binary.LittleEndian.PutUint64(buf[idx*8:], uint64(v))
	case uint64:
		binary.LittleEndian.PutUint64(buf[idx*8:], v)
	case float32:
		binary.LittleEndian.PutUint32(buf[idx*4:], math.Float32bits(v))
	case float64:
		binary.LittleEndian.PutUint64(buf[idx*8:], math.Float64bits(v))
	default:
		panic("binary: unsupported element width")
	}
}

// Get decodes the element at index idx of buf.
func Get[T Element](buf []byte, idx int) T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = int8(buf[idx])
	case *uint8:
		*p = buf[idx]
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(buf[idx*2:]))
	case *uint16:
		*p = binary.LittleEndian.Uint16(buf[idx*2:])
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(buf[idx*4:]))
	case *uint32:
		*p = binary.LittleEndian.Uint32(buf[idx*4:])
	case *int64:
		*p = int64(binary.LittleEndian.Uint64(buf[idx*8:]))
	case *uint64:
		*p = binary.LittleEndian.Uint64(buf[idx*8:])
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(buf[idx*4:]))
	case *float64:
		*p = math.Float64frombits(binary.LittleEndian.Uint64(buf[idx*8:]))
	default:
		panic("binary: unsupported element width")
	}
	return v
}

// Bytes returns the backing memory of a typed slice as a byte slice.
// The result aliases s; it is only a valid storage buffer on a
// little-endian host. Returns nil for an empty slice.
func Bytes[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*Size[T]())
}
