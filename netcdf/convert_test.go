package netcdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-netcdf/internal/binary"
)

func TestDispatchRejectsMismatchedPairs(t *testing.T) {
	c := NewConverter(nil)
	tests := []struct {
		name string
		v    Value
		typ  TypeID
	}{
		{"strings to int", &Strings{Data: []string{"x"}}, TypeInt},
		{"ints to char", &Ints{Data: []int32{1}}, TypeChar},
		{"ints to string", &Ints{Data: []int32{1}}, TypeString},
		{"bytes to double", &Bytes{Data: []byte{1}}, TypeDouble},
		{"list to int", &List{Items: []Value{}}, TypeInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ToStorage(tt.v, tt.typ, ShapeVector, []uint64{1})
			require.ErrorIs(t, err, ErrUnsupportedType)
		})
	}
}

func TestUserTypeNeedsCatalog(t *testing.T) {
	c := NewConverter(nil)
	_, err := c.ToStorage(&Ints{Data: []int32{1}}, FirstUserType, ShapeVector, []uint64{1})
	require.ErrorIs(t, err, ErrBadType)
}

func TestDimensionValidation(t *testing.T) {
	c := NewConverter(nil)

	_, err := c.ToStorage(&Ints{Data: []int32{1}}, TypeInt, 3, []uint64{2, 2})
	require.ErrorIs(t, err, ErrDataLength)

	_, err = c.ReadInit(TypeInt, 3, []uint64{2, 2}, nil)
	require.ErrorIs(t, err, ErrDataLength)

	// Too few host elements for the requested extents.
	_, err = c.ToStorage(&Ints{Data: []int32{1, 2}}, TypeInt, 2, []uint64{2, 3})
	require.ErrorIs(t, err, ErrDataLength)
}

func TestScalarRoundTrip(t *testing.T) {
	c := NewConverter(nil)

	enc, err := c.ToStorage(&Doubles{Data: []float64{2.5}}, TypeDouble, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.5, binary.Get[float64](enc.Bytes, 0))

	b, err := c.ReadInit(TypeDouble, 0, nil, enc.Bytes)
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	d := val.(*Doubles)
	assert.Equal(t, []float64{2.5}, d.Data)
	assert.Nil(t, d.Dims)
}

func TestNumericRoundTrip(t *testing.T) {
	c := NewConverter(nil)
	want := []float64{-1.5, 0, 3.25, math.MaxFloat32}

	enc, err := c.ToStorage(&Doubles{Data: want}, TypeFloat, ShapeVector, []uint64{4})
	require.NoError(t, err)

	b, err := c.ReadInit(TypeFloat, ShapeVector, []uint64{4}, enc.Bytes)
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	assert.Equal(t, want, val.(*Doubles).Data)
}

func TestReadBufExternalBufferIsNotAliased(t *testing.T) {
	c := NewConverter(nil)
	raw := make([]byte, 8)
	binary.Put[int32](raw, 0, 1)
	binary.Put[int32](raw, 1, 2)

	b, err := c.ReadInit(TypeInt, ShapeVector, []uint64{2}, raw, WithNativeInts())
	require.NoError(t, err)
	val, err := c.Populate(b)
	require.NoError(t, err)
	got := val.(*Ints).Data
	assert.Equal(t, []int32{1, 2}, got)

	// The host array was converted out of the caller's buffer.
	binary.Put[int32](raw, 0, 99)
	assert.Equal(t, int32(1), got[0])
}

func TestOwnershipString(t *testing.T) {
	assert.Equal(t, "owned", Owned.String())
	assert.Equal(t, "borrowed", Borrowed.String())
}
