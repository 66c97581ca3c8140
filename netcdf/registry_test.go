package netcdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDescribe(t *testing.T) {
	reg := NewRegistry()

	info, err := reg.Describe(TypeShort)
	require.NoError(t, err)
	assert.Equal(t, ClassNumeric, info.Class)
	assert.Equal(t, uint64(2), info.Size)

	_, err = reg.Describe(FirstUserType)
	require.ErrorIs(t, err, ErrBadType)

	id, err := reg.DefOpaque("blob16", 16)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id, FirstUserType)
	info, err = reg.Describe(id)
	require.NoError(t, err)
	assert.Equal(t, ClassOpaque, info.Class)
	assert.Equal(t, uint64(16), info.Size)
}

func TestRegistryDefEnum(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.DefEnum("bad", TypeFloat, []EnumMember{{Name: "a", Value: []byte{0, 0, 0, 0}}})
	require.ErrorIs(t, err, ErrBadType)

	_, err = reg.DefEnum("bad", TypeShort, []EnumMember{{Name: "a", Value: []byte{1}}})
	require.ErrorIs(t, err, ErrBadType)

	_, err = reg.DefEnum("bad", TypeShort, nil)
	require.ErrorIs(t, err, ErrBadType)

	id, err := reg.DefEnum("speed", TypeShort, []EnumMember{
		{Name: "slow", Value: []byte{10, 0}},
		{Name: "fast", Value: []byte{20, 0}},
	})
	require.NoError(t, err)
	members, err := reg.EnumMembers(id)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "slow", members[0].Name)
	assert.Equal(t, []byte{20, 0}, members[1].Value)

	_, err = reg.EnumMembers(TypeInt)
	require.ErrorIs(t, err, ErrBadType)
}

func TestRegistryDefVlen(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.DefVlen("bad", FirstUserType+7)
	require.ErrorIs(t, err, ErrBadType)

	blob, err := reg.DefOpaque("blob2", 2)
	require.NoError(t, err)
	seq, err := reg.DefVlen("blobseq", blob)
	require.NoError(t, err)
	info, err := reg.Describe(seq)
	require.NoError(t, err)
	assert.Equal(t, ClassVlen, info.Class)
	assert.Equal(t, blob, info.Base)
}

func TestRegistryDefCompound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.DefCompound("bad", 0, []CompoundField{{Name: "x", Type: TypeInt}})
	require.ErrorIs(t, err, ErrBadType)

	_, err = reg.DefCompound("bad", 4, nil)
	require.ErrorIs(t, err, ErrBadType)

	// Field extends past the record.
	_, err = reg.DefCompound("bad", 4, []CompoundField{
		{Name: "x", Offset: 2, Type: TypeInt},
	})
	require.ErrorIs(t, err, ErrBadType)

	// Variable-length field types are rejected.
	_, err = reg.DefCompound("bad", 16, []CompoundField{
		{Name: "s", Offset: 0, Type: TypeString},
	})
	require.ErrorIs(t, err, ErrBadType)

	id, err := reg.DefCompound("rec", 12, []CompoundField{
		{Name: "x", Offset: 0, Type: TypeInt},
		{Name: "pair", Offset: 4, Type: TypeShort, Dims: []int{2}},
	})
	require.NoError(t, err)
	fields, err := reg.CompoundFields(id)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, []int{2}, fields[1].Dims)

	_, err = reg.CompoundFields(TypeInt)
	require.ErrorIs(t, err, ErrBadType)
}

func TestRegistryReleaseVlen(t *testing.T) {
	reg := NewRegistry()
	v := Vlen{Len: 2, Data: []byte{1, 2}}
	reg.ReleaseVlen(&v)
	assert.Nil(t, v.Data)
	reg.ReleaseStrings([]string{"a"})
}
