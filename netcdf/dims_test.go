package netcdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimsToInts(t *testing.T) {
	out, err := DimsToInts(&Ints{Data: []int32{2, 3, 4}}, 5, -1)
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 3, 2, -1, -1}, out)

	out, err = DimsToInts(&Doubles{Data: []float64{2, math.NaN()}}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 2}, out)

	_, err = DimsToInts(&Doubles{Data: []float64{1e12}}, 1, 0)
	require.ErrorIs(t, err, ErrRange)

	_, err = DimsToInts(&Int64s{Data: []int64{math.MaxInt64}}, 1, 0)
	require.ErrorIs(t, err, ErrRange)

	out, err = DimsToInts(nil, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 7, 7}, out)

	_, err = DimsToInts(&Strings{Data: []string{"2"}}, 1, 0)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestDimsToIntsTruncates(t *testing.T) {
	// More host entries than storage slots keeps the leading host
	// entries, reversed into the storage slots.
	out, err := DimsToInts(&Ints{Data: []int32{2, 3, 4}}, 2, -1)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 2}, out)
}

func TestDimsToExtents(t *testing.T) {
	out, err := DimsToExtents(&Ints{Data: []int32{2, MissingInt}}, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 2, 0}, out)

	// Negative 64-bit entries keep their bit pattern.
	out, err = DimsToExtents(&Int64s{Data: []int64{-1}}, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{math.MaxUint64}, out)

	_, err = DimsToExtents(&Doubles{Data: []float64{-2}}, 1, 0)
	require.ErrorIs(t, err, ErrRange)

	out, err = DimsToExtents(&Int64s{Data: []int64{2, 3, 4}}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 2}, out)
}

func TestReverseHelpers(t *testing.T) {
	s := []int32{1, 2, 3, 4}
	ReverseInts(s)
	assert.Equal(t, []int32{4, 3, 2, 1}, s)

	e := []uint64{5, 6, 7}
	ReverseExtents(e)
	assert.Equal(t, []uint64{7, 6, 5}, e)
}
