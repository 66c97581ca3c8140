package netcdf

import "fmt"

// TypeID identifies a storage type. Atomic types use the fixed ids
// below; user-defined types are assigned ids from FirstUserType upward
// by the dataset's catalog.
type TypeID int32

const (
	TypeNone   TypeID = 0
	TypeByte   TypeID = 1  // signed 1-byte integer
	TypeChar   TypeID = 2  // fixed-width character data
	TypeShort  TypeID = 3  // signed 2-byte integer
	TypeInt    TypeID = 4  // signed 4-byte integer
	TypeFloat  TypeID = 5  // 4-byte IEEE float
	TypeDouble TypeID = 6  // 8-byte IEEE float
	TypeUByte  TypeID = 7  // unsigned 1-byte integer
	TypeUShort TypeID = 8  // unsigned 2-byte integer
	TypeUInt   TypeID = 9  // unsigned 4-byte integer
	TypeInt64  TypeID = 10 // signed 8-byte integer
	TypeUInt64 TypeID = 11 // unsigned 8-byte integer
	TypeString TypeID = 12 // variable-length string

	maxAtomicType = TypeString

	// FirstUserType is the lowest id a catalog assigns to a
	// user-defined type.
	FirstUserType TypeID = 32
)

// Class is the fundamental kind of a storage type.
type Class uint8

const (
	ClassNone Class = iota
	ClassNumeric
	ClassChar
	ClassString
	ClassCompound
	ClassEnum
	ClassOpaque
	ClassVlen
)

func (c Class) String() string {
	switch c {
	case ClassNumeric:
		return "numeric"
	case ClassChar:
		return "char"
	case ClassString:
		return "string"
	case ClassCompound:
		return "compound"
	case ClassEnum:
		return "enum"
	case ClassOpaque:
		return "opaque"
	case ClassVlen:
		return "vlen"
	default:
		return "none"
	}
}

// TypeInfo describes a storage type.
type TypeInfo struct {
	Name  string
	Class Class
	Size  uint64 // element size in bytes; 0 for variable-length strings
	Base  TypeID // base type for enum and vlen classes
}

// EnumMember is one named value of an enum type. Value holds the raw
// little-endian bytes of the member at the base type's width.
type EnumMember struct {
	Name  string
	Value []byte
}

// CompoundField is one named field of a compound type. Dims are the
// field's own trailing dimensions, empty for scalar fields.
type CompoundField struct {
	Name   string
	Offset uint64
	Type   TypeID
	Dims   []int
}

// Vlen is one element of a variable-length array in storage form: an
// element count plus the encoded content of Len elements of the base
// type. Exactly one of Data, Strings or Vlens is populated, matching
// the base type's class; a zero-length element carries none.
type Vlen struct {
	Len     uint64
	Data    []byte
	Strings []string
	Vlens   []Vlen
}

// Catalog is the type-metadata registry of an open dataset. The
// conversion engine queries it for user-defined types (ids at or above
// FirstUserType) and hands storage-owned variable-length buffers back
// to it for release; it never mutates the catalog.
type Catalog interface {
	// Describe returns the descriptor of a user-defined type.
	Describe(t TypeID) (TypeInfo, error)

	// EnumMembers returns an enum type's members in definition order.
	EnumMembers(t TypeID) ([]EnumMember, error)

	// CompoundFields returns a compound type's fields in definition
	// order.
	CompoundFields(t TypeID) ([]CompoundField, error)

	// ReleaseVlen releases one storage-owned variable-length element
	// after its content has been copied into host memory.
	ReleaseVlen(v *Vlen)

	// ReleaseStrings releases storage-owned variable-length strings
	// after their content has been copied into host memory.
	ReleaseStrings(s []string)
}

// atomicInfo holds the descriptors of the built-in types, indexed by
// TypeID.
var atomicInfo = [...]TypeInfo{
	TypeByte:   {Name: "byte", Class: ClassNumeric, Size: 1},
	TypeChar:   {Name: "char", Class: ClassChar, Size: 1},
	TypeShort:  {Name: "short", Class: ClassNumeric, Size: 2},
	TypeInt:    {Name: "int", Class: ClassNumeric, Size: 4},
	TypeFloat:  {Name: "float", Class: ClassNumeric, Size: 4},
	TypeDouble: {Name: "double", Class: ClassNumeric, Size: 8},
	TypeUByte:  {Name: "ubyte", Class: ClassNumeric, Size: 1},
	TypeUShort: {Name: "ushort", Class: ClassNumeric, Size: 2},
	TypeUInt:   {Name: "uint", Class: ClassNumeric, Size: 4},
	TypeInt64:  {Name: "int64", Class: ClassNumeric, Size: 8},
	TypeUInt64: {Name: "uint64", Class: ClassNumeric, Size: 8},
	TypeString: {Name: "string", Class: ClassString, Size: 0},
}

// IsAtomic reports whether t is one of the built-in storage types.
func (t TypeID) IsAtomic() bool {
	return t >= TypeByte && t <= maxAtomicType
}

// IsInteger reports whether t is an atomic integer type.
func (t TypeID) IsInteger() bool {
	switch t {
	case TypeByte, TypeUByte, TypeShort, TypeUShort, TypeInt, TypeUInt, TypeInt64, TypeUInt64:
		return true
	}
	return false
}

func (t TypeID) String() string {
	if t.IsAtomic() {
		return atomicInfo[t].Name
	}
	return fmt.Sprintf("type-%d", int32(t))
}
