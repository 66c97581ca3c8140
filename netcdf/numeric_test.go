package netcdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-netcdf/internal/binary"
)

func TestWriteIntsRangeChecked(t *testing.T) {
	c := NewConverter(nil)
	tests := []struct {
		name    string
		value   int32
		typ     TypeID
		wantErr error
	}{
		{"byte overflow", 300, TypeByte, ErrRange},
		{"byte from int max", math.MaxInt32, TypeByte, ErrRange},
		{"byte fits", 100, TypeByte, nil},
		{"ubyte negative", -1, TypeUByte, ErrRange},
		{"ubyte overflow", 260, TypeUByte, ErrRange},
		{"short overflow", 70000, TypeShort, ErrRange},
		{"uint negative", -1, TypeUInt, ErrRange},
		{"uint64 negative", -1, TypeUInt64, ErrRange},
		{"int no check", math.MinInt32 + 1, TypeInt, nil},
		{"float widens", math.MaxInt32, TypeFloat, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ToStorage(&Ints{Data: []int32{tt.value}}, tt.typ, ShapeVector, []uint64{1})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestWriteIntsFillValue(t *testing.T) {
	c := NewConverter(nil)
	host := &Ints{Data: []int32{MissingInt, 5}}

	enc, err := c.ToStorage(host, TypeShort, ShapeVector, []uint64{2}, WithFill(int16(-99)))
	require.NoError(t, err)
	assert.Equal(t, int16(-99), binary.Get[int16](enc.Bytes, 0))
	assert.Equal(t, int16(5), binary.Get[int16](enc.Bytes, 1))

	_, err = c.ToStorage(host, TypeShort, ShapeVector, []uint64{2})
	require.ErrorIs(t, err, ErrMissingValue)
}

func TestWriteDoubles64BitBounds(t *testing.T) {
	c := NewConverter(nil)

	_, err := c.ToStorage(&Doubles{Data: []float64{float64(math.MaxInt64)}}, TypeInt64, ShapeVector, []uint64{1})
	require.ErrorIs(t, err, ErrRange)

	enc, err := c.ToStorage(&Doubles{Data: []float64{int64MaxDbl}}, TypeInt64, ShapeVector, []uint64{1})
	require.NoError(t, err)
	assert.Equal(t, int64(int64MaxDbl), binary.Get[int64](enc.Bytes, 0))

	_, err = c.ToStorage(&Doubles{Data: []float64{-1}}, TypeUInt64, ShapeVector, []uint64{1})
	require.ErrorIs(t, err, ErrRange)

	_, err = c.ToStorage(&Doubles{Data: []float64{math.NaN()}}, TypeDouble, ShapeVector, []uint64{1})
	require.ErrorIs(t, err, ErrMissingValue)

	enc, err = c.ToStorage(&Doubles{Data: []float64{math.Inf(1)}}, TypeDouble, ShapeVector, []uint64{1})
	require.NoError(t, err)
	assert.True(t, math.IsInf(binary.Get[float64](enc.Bytes, 0), 1))
}

func TestWritePacking(t *testing.T) {
	c := NewConverter(nil)
	enc, err := c.ToStorage(&Ints{Data: []int32{5}}, TypeShort, ShapeVector, []uint64{1},
		WithScale(0.5), WithOffset(10))
	require.NoError(t, err)
	assert.Equal(t, int16(-10), binary.Get[int16](enc.Bytes, 0))
	assert.Equal(t, Owned, enc.Owner)
}

func TestWriteBorrowsMatchingRepresentation(t *testing.T) {
	if !binary.NativeIsLittle() {
		t.Skip("borrowed buffers need a little-endian host")
	}
	c := NewConverter(nil)
	host := &Ints{Data: []int32{1, 2, 3}}
	enc, err := c.ToStorage(host, TypeInt, ShapeVector, []uint64{3})
	require.NoError(t, err)
	assert.Equal(t, Borrowed, enc.Owner)
	require.Len(t, enc.Bytes, 12)
	for i, want := range []int32{1, 2, 3} {
		assert.Equal(t, want, binary.Get[int32](enc.Bytes, i))
	}

	// A fill value forces an owned copy.
	enc, err = c.ToStorage(host, TypeInt, ShapeVector, []uint64{3}, WithFill(int32(-1)))
	require.NoError(t, err)
	assert.Equal(t, Owned, enc.Owner)
}

func TestInt64Uint64Wraparound(t *testing.T) {
	c := NewConverter(nil)

	enc, err := c.ToStorage(&Int64s{Data: []int64{-1}}, TypeUInt64, ShapeVector, []uint64{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), binary.Get[uint64](enc.Bytes, 0))

	raw := make([]byte, 8)
	binary.Put[uint64](raw, 0, math.MaxUint64)
	b, err := c.ReadInit(TypeUInt64, ShapeVector, []uint64{1}, raw, WithNativeInts())
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []int64{-1}, val.(*Int64s).Data)
}

func TestReadContainerSelection(t *testing.T) {
	c := NewConverter(nil)
	raw := make([]byte, 4)
	binary.Put[int16](raw, 0, 7)
	binary.Put[int16](raw, 1, -3)

	b, err := c.ReadInit(TypeShort, ShapeVector, []uint64{2}, raw)
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, -3}, val.(*Doubles).Data)

	b, err = c.ReadInit(TypeShort, ShapeVector, []uint64{2}, raw, WithNativeInts())
	require.NoError(t, err)
	val, err = c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []int32{7, -3}, val.(*Ints).Data)

	raw64 := make([]byte, 8)
	binary.Put[int64](raw64, 0, 1<<40)
	b, err = c.ReadInit(TypeInt64, ShapeVector, []uint64{1}, raw64, WithNativeInts())
	require.NoError(t, err)
	val, err = c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []int64{1 << 40}, val.(*Int64s).Data)
}

func TestReadValidRangeAndFill(t *testing.T) {
	c := NewConverter(nil)

	raw := make([]byte, 4)
	binary.Put[int16](raw, 0, math.MinInt16)
	binary.Put[int16](raw, 1, 100)
	b, err := c.ReadInit(TypeShort, ShapeVector, []uint64{2}, raw, WithNativeInts(), WithValidMin(int16(0)))
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []int32{MissingInt, 100}, val.(*Ints).Data)

	raw32 := make([]byte, 8)
	binary.Put[int32](raw32, 0, -999)
	binary.Put[int32](raw32, 1, 4)
	b, err = c.ReadInit(TypeInt, ShapeVector, []uint64{2}, raw32, WithFill(int32(-999)))
	require.NoError(t, err)
	val, err = c.Populate(b)
	require.NoError(t, err)
	ds := val.(*Doubles).Data
	assert.True(t, math.IsNaN(ds[0]))
	assert.Equal(t, float64(4), ds[1])
}

func TestReadUnpack(t *testing.T) {
	c := NewConverter(nil)
	raw := []byte{5, 0x80}
	b, err := c.ReadInit(TypeByte, ShapeVector, []uint64{2}, raw,
		WithScale(0.5), WithOffset(10), WithFill(int8(math.MinInt8)))
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	ds := val.(*Doubles).Data
	assert.Equal(t, 12.5, ds[0])
	assert.True(t, math.IsNaN(ds[1]))
}

func TestReadInfinityIsMissingByDefault(t *testing.T) {
	c := NewConverter(nil)

	raw := make([]byte, 4*8)
	binary.Put[float64](raw, 0, math.Inf(1))
	binary.Put[float64](raw, 1, math.Inf(-1))
	binary.Put[float64](raw, 2, math.NaN())
	binary.Put[float64](raw, 3, math.MaxFloat64)
	b, err := c.ReadInit(TypeDouble, ShapeVector, []uint64{4}, raw)
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	ds := val.(*Doubles).Data
	assert.True(t, math.IsNaN(ds[0]))
	assert.True(t, math.IsNaN(ds[1]))
	assert.True(t, math.IsNaN(ds[2]))
	assert.Equal(t, math.MaxFloat64, ds[3])

	raw32 := make([]byte, 4)
	binary.Put[float32](raw32, 0, float32(math.Inf(1)))
	b, err = c.ReadInit(TypeFloat, ShapeVector, []uint64{1}, raw32)
	require.NoError(t, err)
	val, err = c.Populate(b)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(val.(*Doubles).Data[0]))

	// An explicit valid range wider than the default admits infinity.
	b, err = c.ReadInit(TypeDouble, ShapeVector, []uint64{1}, raw,
		WithValidMax(math.Inf(1)))
	require.NoError(t, err)
	val, err = c.Populate(b)
	require.NoError(t, err)
	assert.True(t, math.IsInf(val.(*Doubles).Data[0], 1))
}

func TestReadInPlace(t *testing.T) {
	if !binary.NativeIsLittle() {
		t.Skip("in-place reads need a little-endian host")
	}
	c := NewConverter(nil)
	b, err := c.ReadInit(TypeShort, ShapeVector, []uint64{3}, nil, WithNativeInts())
	require.NoError(t, err)
	require.Len(t, b.Raw, 6)
	for i, v := range []int16{-2, 0, 2} {
		binary.Put[int16](b.Raw, i, v)
	}
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []int32{-2, 0, 2}, val.(*Ints).Data)
}

func TestReadInPlaceUnpack(t *testing.T) {
	if !binary.NativeIsLittle() {
		t.Skip("in-place reads need a little-endian host")
	}
	c := NewConverter(nil)

	// Unpacked reads land in doubles, so the 2-byte storage elements
	// share the front of the 8-byte host elements; reverse-order
	// conversion keeps later inputs intact while earlier outputs grow.
	b, err := c.ReadInit(TypeShort, ShapeVector, []uint64{4}, nil,
		WithScale(0.5), WithOffset(10))
	require.NoError(t, err)
	require.Len(t, b.Raw, 8)
	for i, v := range []int16{0, 1, -1, 100} {
		binary.Put[int16](b.Raw, i, v)
	}
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10.5, 9.5, 60}, val.(*Doubles).Data)
}

func TestReadShapeReversal(t *testing.T) {
	c := NewConverter(nil)
	raw := make([]byte, 6*8)
	b, err := c.ReadInit(TypeDouble, 3, []uint64{1, 2, 3}, raw)
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, val.Shape())
	assert.Equal(t, 6, val.Len())
}
