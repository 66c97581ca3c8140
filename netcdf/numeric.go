package netcdf

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-netcdf/internal/binary"
)

// hostNum is the closed set of host numeric element types: native
// integers, doubles, and 64-bit integers.
type hostNum interface {
	~int32 | ~int64 | ~float64
}

// storageNum is the closed set of atomic numeric storage
// representations.
type storageNum interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Conversion from 64-bit integer limits to double may round upward, so
// a double equal to the rounded limit could fail to convert back. These
// bounds are nudged inward by one epsilon factor and are safe in both
// directions.
const dblEpsilon = 0x1p-52

var (
	int64MaxDbl  = float64(math.MaxInt64) * (1 - dblEpsilon)
	int64MinDbl  = float64(math.MinInt64) * (1 - dblEpsilon)
	uint64MaxDbl = float64(math.MaxUint64) * (1 - dblEpsilon)
)

// rangeMode selects which half of a range check applies to a type pair.
// Pairs whose destination covers the whole source range use checkNone.
type rangeMode uint8

const (
	checkNone rangeMode = iota
	checkMin
	checkMax
	checkBoth
)

// bounds is the range-check policy for one (host, storage) type pair,
// expressed in the host element type.
type bounds[I hostNum] struct {
	lo, hi I
	mode   rangeMode
}

func noCheck[I hostNum]() bounds[I]         { return bounds[I]{mode: checkNone} }
func minCheck[I hostNum](lo I) bounds[I]    { return bounds[I]{lo: lo, mode: checkMin} }
func rangeOf[I hostNum](lo, hi I) bounds[I] { return bounds[I]{lo: lo, hi: hi, mode: checkBoth} }

func (b bounds[I]) ok(v I) bool {
	switch b.mode {
	case checkNone:
		return true
	case checkMin:
		return b.lo <= v
	case checkMax:
		return v <= b.hi
	default:
		return b.lo <= v && v <= b.hi
	}
}

// asNum coerces a user-supplied fill/min/max parameter to the storage
// element type.
func asNum[T storageNum](v any) (T, bool) {
	switch v := v.(type) {
	case int:
		return T(v), true
	case int8:
		return T(v), true
	case int16:
		return T(v), true
	case int32:
		return T(v), true
	case int64:
		return T(v), true
	case uint:
		return T(v), true
	case uint8:
		return T(v), true
	case uint16:
		return T(v), true
	case uint32:
		return T(v), true
	case uint64:
		return T(v), true
	case float32:
		return T(v), true
	case float64:
		return T(v), true
	}
	var zero T
	return zero, false
}

// sameRep reports whether the host and storage element types share one
// in-memory representation, making borrowed output possible.
func sameRep[I hostNum, O storageNum]() bool {
	var o O
	_, ok := any(o).(I)
	return ok
}

// r2cNum converts cnt host elements to the storage representation.
// When the pair needs no conversion work the returned buffer borrows
// the host value's memory; the caller must not modify it. A missing
// host element becomes the fill value, or fails the conversion when no
// fill is configured. Out-of-range elements fail immediately.
func r2cNum[I hostNum, O storageNum](in []I, cnt uint64, p *convParams,
	na func(I) bool, ck bounds[I], alloc func(int) []byte) (*Encoded, error) {

	if uint64(len(in)) < cnt {
		return nil, fmt.Errorf("have %d elements, need %d: %w", len(in), cnt, ErrDataLength)
	}

	var fillv O
	hasFill := false
	if p.fill != nil {
		f, ok := asNum[O](p.fill)
		if !ok {
			return nil, fmt.Errorf("fill value %T: %w", p.fill, ErrUnsupportedType)
		}
		fillv, hasFill = f, true
	}

	pack := p.unpack()
	borrow := !hasFill && !pack && sameRep[I, O]() && binary.NativeIsLittle()

	size := binary.Size[O]()
	var out []byte
	if borrow {
		out = binary.Bytes(in[:cnt])
	} else {
		out = alloc(int(cnt) * size)
	}

	factor, offset := p.factor(), p.offset()
	missing := false
	for i := uint64(0); i < cnt; i++ {
		v := in[i]
		switch {
		case na(v):
			if hasFill {
				binary.Put(out, int(i), fillv)
			} else {
				missing = true
			}
		case ck.ok(v):
			if pack {
				binary.Put(out, int(i), O(math.Round((float64(v)-offset)/factor)))
			} else if !borrow {
				binary.Put(out, int(i), O(v))
			}
		default:
			return nil, fmt.Errorf("element %d: %w", i, ErrRange)
		}
	}
	if missing {
		return nil, ErrMissingValue
	}

	owner := Owned
	if borrow {
		owner = Borrowed
	}
	return &Encoded{Bytes: out, Count: cnt, Owner: owner}, nil
}

// c2rNum converts storage elements in raw to the host slice out.
// Elements equal to the fill value or outside the valid range become
// naOut. The host element is never narrower than the storage element,
// so conversion runs in reverse index order and raw may alias out's
// backing memory.
func c2rNum[I storageNum, O hostNum](raw []byte, out []O, p *convParams,
	naOut O, defLo, defHi I) error {

	fillv, minv, maxv, hasFill, err := readParams(p, defLo, defHi)
	if err != nil {
		return err
	}
	for i := len(out) - 1; i >= 0; i-- {
		v := binary.Get[I](raw, i)
		if (hasFill && v == fillv) || v < minv || maxv < v {
			out[i] = naOut
		} else {
			out[i] = O(v)
		}
	}
	return nil
}

// c2rUnpack converts storage elements to doubles applying the linear
// transform value*scale+offset. Same aliasing and ordering rules as
// c2rNum.
func c2rUnpack[I storageNum](raw []byte, out []float64, p *convParams,
	defLo, defHi I) error {

	fillv, minv, maxv, hasFill, err := readParams(p, defLo, defHi)
	if err != nil {
		return err
	}
	factor, offset := p.factor(), p.offset()
	for i := len(out) - 1; i >= 0; i-- {
		v := binary.Get[I](raw, i)
		if (hasFill && v == fillv) || v < minv || maxv < v {
			out[i] = math.NaN()
		} else {
			out[i] = float64(v)*factor + offset
		}
	}
	return nil
}

// readParams coerces the fill/min/max read parameters to the storage
// element type, defaulting the valid range to the type's full range.
func readParams[I storageNum](p *convParams, defLo, defHi I) (fillv, minv, maxv I, hasFill bool, err error) {
	minv, maxv = defLo, defHi
	if p.fill != nil {
		f, ok := asNum[I](p.fill)
		if !ok {
			return 0, 0, 0, false, fmt.Errorf("fill value %T: %w", p.fill, ErrUnsupportedType)
		}
		fillv, hasFill = f, true
	}
	if p.min != nil {
		m, ok := asNum[I](p.min)
		if !ok {
			return 0, 0, 0, false, fmt.Errorf("valid-min value %T: %w", p.min, ErrUnsupportedType)
		}
		minv = m
	}
	if p.max != nil {
		m, ok := asNum[I](p.max)
		if !ok {
			return 0, 0, 0, false, fmt.Errorf("valid-max value %T: %w", p.max, ErrUnsupportedType)
		}
		maxv = m
	}
	return fillv, minv, maxv, hasFill, nil
}

// r2cFromInts converts a native-integer host array to any atomic
// numeric storage type. Pairs with a destination at least as wide as
// the source skip the range check entirely.
func (cv *conv) r2cFromInts(in []int32, t TypeID, cnt uint64, p *convParams) (*Encoded, error) {
	na := isMissingInt
	switch t {
	case TypeByte:
		return r2cNum[int32, int8](in, cnt, p, na, rangeOf[int32](math.MinInt8, math.MaxInt8), cv.newBytes)
	case TypeUByte:
		return r2cNum[int32, uint8](in, cnt, p, na, rangeOf[int32](0, math.MaxUint8), cv.newBytes)
	case TypeShort:
		return r2cNum[int32, int16](in, cnt, p, na, rangeOf[int32](math.MinInt16, math.MaxInt16), cv.newBytes)
	case TypeUShort:
		return r2cNum[int32, uint16](in, cnt, p, na, rangeOf[int32](0, math.MaxUint16), cv.newBytes)
	case TypeInt:
		return r2cNum[int32, int32](in, cnt, p, na, noCheck[int32](), cv.newBytes)
	case TypeUInt:
		return r2cNum[int32, uint32](in, cnt, p, na, minCheck[int32](0), cv.newBytes)
	case TypeInt64:
		return r2cNum[int32, int64](in, cnt, p, na, noCheck[int32](), cv.newBytes)
	case TypeUInt64:
		return r2cNum[int32, uint64](in, cnt, p, na, minCheck[int32](0), cv.newBytes)
	case TypeFloat:
		return r2cNum[int32, float32](in, cnt, p, na, noCheck[int32](), cv.newBytes)
	case TypeDouble:
		return r2cNum[int32, float64](in, cnt, p, na, noCheck[int32](), cv.newBytes)
	}
	return nil, fmt.Errorf("integer host value to %v: %w", t, ErrUnsupportedType)
}

// r2cFromDoubles converts a double host array to any atomic numeric
// storage type. The 64-bit integer bounds are the epsilon-adjusted
// constants so a double equal to the bound always survives the
// round trip.
func (cv *conv) r2cFromDoubles(in []float64, t TypeID, cnt uint64, p *convParams) (*Encoded, error) {
	na := isMissingDouble
	switch t {
	case TypeByte:
		return r2cNum[float64, int8](in, cnt, p, na, rangeOf[float64](math.MinInt8, math.MaxInt8), cv.newBytes)
	case TypeUByte:
		return r2cNum[float64, uint8](in, cnt, p, na, rangeOf[float64](0, math.MaxUint8), cv.newBytes)
	case TypeShort:
		return r2cNum[float64, int16](in, cnt, p, na, rangeOf[float64](math.MinInt16, math.MaxInt16), cv.newBytes)
	case TypeUShort:
		return r2cNum[float64, uint16](in, cnt, p, na, rangeOf[float64](0, math.MaxUint16), cv.newBytes)
	case TypeInt:
		return r2cNum[float64, int32](in, cnt, p, na, rangeOf[float64](math.MinInt32, math.MaxInt32), cv.newBytes)
	case TypeUInt:
		return r2cNum[float64, uint32](in, cnt, p, na, rangeOf[float64](0, math.MaxUint32), cv.newBytes)
	case TypeInt64:
		return r2cNum[float64, int64](in, cnt, p, na, rangeOf[float64](int64MinDbl, int64MaxDbl), cv.newBytes)
	case TypeUInt64:
		return r2cNum[float64, uint64](in, cnt, p, na, rangeOf[float64](0, uint64MaxDbl), cv.newBytes)
	case TypeFloat:
		return r2cNum[float64, float32](in, cnt, p, na, rangeOf[float64](-math.MaxFloat32, math.MaxFloat32), cv.newBytes)
	case TypeDouble:
		return r2cNum[float64, float64](in, cnt, p, na, noCheck[float64](), cv.newBytes)
	}
	return nil, fmt.Errorf("double host value to %v: %w", t, ErrUnsupportedType)
}

// r2cFromInt64s converts a 64-bit integer host array to any atomic
// numeric storage type. The int64-to-uint64 pair permits bit-pattern
// wraparound: negative host values store as large unsigned values.
// That wrap is pinned to this one pair; every other pair rejects
// out-of-range values.
func (cv *conv) r2cFromInt64s(in []int64, t TypeID, cnt uint64, p *convParams) (*Encoded, error) {
	na := isMissingInt64
	switch t {
	case TypeByte:
		return r2cNum[int64, int8](in, cnt, p, na, rangeOf[int64](math.MinInt8, math.MaxInt8), cv.newBytes)
	case TypeUByte:
		return r2cNum[int64, uint8](in, cnt, p, na, rangeOf[int64](0, math.MaxUint8), cv.newBytes)
	case TypeShort:
		return r2cNum[int64, int16](in, cnt, p, na, rangeOf[int64](math.MinInt16, math.MaxInt16), cv.newBytes)
	case TypeUShort:
		return r2cNum[int64, uint16](in, cnt, p, na, rangeOf[int64](0, math.MaxUint16), cv.newBytes)
	case TypeInt:
		return r2cNum[int64, int32](in, cnt, p, na, rangeOf[int64](math.MinInt32, math.MaxInt32), cv.newBytes)
	case TypeUInt:
		return r2cNum[int64, uint32](in, cnt, p, na, rangeOf[int64](0, math.MaxUint32), cv.newBytes)
	case TypeInt64:
		return r2cNum[int64, int64](in, cnt, p, na, noCheck[int64](), cv.newBytes)
	case TypeUInt64:
		return r2cNum[int64, uint64](in, cnt, p, na, noCheck[int64](), cv.newBytes)
	case TypeFloat:
		// Every int64 is within float32 range.
		return r2cNum[int64, float32](in, cnt, p, na, noCheck[int64](), cv.newBytes)
	case TypeDouble:
		return r2cNum[int64, float64](in, cnt, p, na, noCheck[int64](), cv.newBytes)
	}
	return nil, fmt.Errorf("int64 host value to %v: %w", t, ErrUnsupportedType)
}

// numericReadKind selects the host container for reading an atomic
// numeric storage type. A packing transform always lands in doubles;
// the native-ints hint keeps losslessly representable integer types in
// integer containers; everything else widens to double.
func numericReadKind(t TypeID, p *convParams) arrayKind {
	if p.unpack() {
		return kindDouble
	}
	if p.fitNum {
		switch t {
		case TypeByte, TypeUByte, TypeShort, TypeUShort, TypeInt:
			return kindInt
		case TypeInt64, TypeUInt64:
			return kindInt64
		}
	}
	return kindDouble
}

// popNum runs the storage-to-host conversion for one storage element
// type into whichever host container the read was initialized with.
func popNum[I storageNum](raw []byte, host Value, p *convParams, defLo, defHi I) error {
	switch out := host.(type) {
	case *Doubles:
		if p.unpack() {
			return c2rUnpack[I](raw, out.Data, p, defLo, defHi)
		}
		return c2rNum[I, float64](raw, out.Data, p, math.NaN(), defLo, defHi)
	case *Ints:
		return c2rNum[I, int32](raw, out.Data, p, MissingInt, defLo, defHi)
	case *Int64s:
		return c2rNum[I, int64](raw, out.Data, p, MissingInt64, defLo, defHi)
	}
	return fmt.Errorf("numeric read into %T: %w", host, ErrUnsupportedType)
}

// populateNumeric converts the raw storage bytes of an atomic numeric
// read into the host container allocated by the init step.
func populateNumeric(t TypeID, raw []byte, host Value, p *convParams) error {
	switch t {
	case TypeByte:
		return popNum[int8](raw, host, p, math.MinInt8, math.MaxInt8)
	case TypeUByte:
		return popNum[uint8](raw, host, p, 0, math.MaxUint8)
	case TypeShort:
		return popNum[int16](raw, host, p, math.MinInt16, math.MaxInt16)
	case TypeUShort:
		return popNum[uint16](raw, host, p, 0, math.MaxUint16)
	case TypeInt:
		return popNum[int32](raw, host, p, math.MinInt32, math.MaxInt32)
	case TypeUInt:
		return popNum[uint32](raw, host, p, 0, math.MaxUint32)
	case TypeInt64:
		return popNum[int64](raw, host, p, math.MinInt64, math.MaxInt64)
	case TypeUInt64:
		return popNum[uint64](raw, host, p, 0, math.MaxUint64)
	case TypeFloat:
		// Infinities sit outside the default valid range and read as
		// missing; NaN fails both comparisons and passes through.
		return popNum[float32](raw, host, p, -math.MaxFloat32, math.MaxFloat32)
	case TypeDouble:
		return popNum[float64](raw, host, p, -math.MaxFloat64, math.MaxFloat64)
	}
	return fmt.Errorf("numeric read of %v: %w", t, ErrUnsupportedType)
}
