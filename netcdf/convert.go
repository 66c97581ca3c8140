package netcdf

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-netcdf/internal/arena"
	"github.com/robert-malhotra/go-netcdf/internal/binary"
)

// Ownership says who owns an encoded buffer's memory.
type Ownership uint8

const (
	// Owned buffers were allocated by the conversion and may be
	// retained or modified freely.
	Owned Ownership = iota
	// Borrowed buffers alias the host value's memory and are only
	// valid while the host value is.
	Borrowed
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Encoded is the storage-side result of a write conversion. Numeric,
// char, enum, opaque and compound data land in Bytes; variable-length
// strings and vlen elements travel on their own channels because the
// storage layer owns their final representation.
type Encoded struct {
	Bytes   []byte
	Strings []string
	Vlens   []Vlen
	Count   uint64
	Owner   Ownership
}

// ReadBuf is a two-phase read in progress. ReadInit allocates the host
// container and exposes the buffers the storage layer fills in: Raw for
// fixed-size types, Strings and Vlens for the variable-length classes.
// Populate then converts the filled buffers into the host container.
// When Raw aliases the host container's memory the storage layer reads
// directly into host memory and Populate converts in place.
type ReadBuf struct {
	Raw     []byte
	Strings []string
	Vlens   []Vlen

	typ     TypeID
	ndim    int
	extents []uint64
	host    Value
	p       *convParams
	inPlace bool
}

// Converter converts between host values and storage encodings using a
// catalog for user-defined type metadata. A nil catalog supports the
// atomic types only. Converters are stateless and safe for concurrent
// use; individual Encoded and ReadBuf values are not.
type Converter struct {
	cat Catalog
}

func NewConverter(cat Catalog) *Converter {
	return &Converter{cat: cat}
}

// ToStorage converts a host value to the storage encoding of type t
// with the given storage-order extents. A negative ndim treats the
// value as a flat vector of extents[0] elements; ndim zero is a scalar.
func (c *Converter) ToStorage(v Value, t TypeID, ndim int, extents []uint64, opts ...Option) (*Encoded, error) {
	cv := &conv{cat: c.cat, scr: arena.New()}
	return cv.toStorage(v, t, ndim, extents, newParams(opts))
}

// ReadInit starts a two-phase read of type t with the given
// storage-order extents, allocating the host container and the storage
// buffers. A non-nil raw supplies an external storage buffer and
// disables in-place conversion.
func (c *Converter) ReadInit(t TypeID, ndim int, extents []uint64, raw []byte, opts ...Option) (*ReadBuf, error) {
	cv := &conv{cat: c.cat, scr: arena.New()}
	return cv.readInit(t, ndim, extents, raw, newParams(opts))
}

// Populate finishes a two-phase read, converting the storage buffers of
// b into its host container and returning the container.
func (c *Converter) Populate(b *ReadBuf) (Value, error) {
	cv := &conv{cat: c.cat, scr: arena.New()}
	return cv.populate(b)
}

// conv is the per-call conversion state: the catalog and a scratch
// arena for compound field staging.
type conv struct {
	cat        Catalog
	scr        *arena.Arena
	useScratch bool
}

// newBytes allocates an owned output buffer, from the scratch arena
// inside compound field staging and from the heap otherwise.
func (cv *conv) newBytes(n int) []byte {
	if cv.useScratch {
		return cv.scr.Alloc(n)
	}
	return make([]byte, n)
}

func (cv *conv) describe(t TypeID) (TypeInfo, error) {
	if t.IsAtomic() {
		return atomicInfo[t], nil
	}
	if cv.cat == nil {
		return TypeInfo{}, fmt.Errorf("type %s without a catalog: %w", t, ErrBadType)
	}
	return cv.cat.Describe(t)
}

// checkDims validates that extents covers the requested dimensions,
// and that the implied element count fits an int.
func checkDims(ndim int, extents []uint64) (uint64, error) {
	need := ndim
	if ndim < 0 {
		need = 1
	}
	if need > len(extents) {
		return 0, fmt.Errorf("%d dimensions with %d extents: %w", ndim, len(extents), ErrDataLength)
	}
	cnt := Length(ndim, extents)
	if cnt > math.MaxInt32 {
		return 0, fmt.Errorf("element count %d exceeds range of int: %w", cnt, ErrDataLength)
	}
	return cnt, nil
}

func (cv *conv) toStorage(v Value, t TypeID, ndim int, extents []uint64, p *convParams) (*Encoded, error) {
	cnt, err := checkDims(ndim, extents)
	if err != nil {
		return nil, err
	}
	info, err := cv.describe(t)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case *Ints:
		if info.Class == ClassNumeric {
			return cv.r2cFromInts(v.Data, t, cnt, p)
		}
	case *Doubles:
		if info.Class == ClassNumeric {
			return cv.r2cFromDoubles(v.Data, t, cnt, p)
		}
	case *Int64s:
		if info.Class == ClassNumeric {
			return cv.r2cFromInt64s(v.Data, t, cnt, p)
		}
	case *Factor:
		switch info.Class {
		case ClassEnum:
			return cv.factorToEnum(v, t, cnt, p)
		case ClassNumeric:
			return cv.r2cFromInts(v.Codes, t, cnt, p)
		}
	case *Strings:
		switch info.Class {
		case ClassChar:
			return cv.stringsToChar(v, ndim, extents)
		case ClassString:
			return stringsToStr(v, cnt)
		}
	case *Bytes:
		switch info.Class {
		case ClassChar:
			return bytesToChar(v, ndim, extents)
		case ClassOpaque:
			return bytesToOpaque(v, cnt, int(info.Size))
		}
	case *List:
		switch info.Class {
		case ClassVlen:
			return cv.listToVlen(v, t, info, cnt, p)
		case ClassCompound:
			return cv.listToCompound(v, t, info, cnt, p)
		}
	}
	return nil, fmt.Errorf("%T to %s type %s: %w", v, info.Class, info.Name, ErrUnsupportedType)
}

// hostBytes exposes the backing memory of a fixed-width host container
// for in-place conversion.
func hostBytes(v Value) []byte {
	switch v := v.(type) {
	case *Ints:
		return binary.Bytes(v.Data)
	case *Int64s:
		return binary.Bytes(v.Data)
	case *Doubles:
		return binary.Bytes(v.Data)
	case *Bytes:
		return v.Data
	}
	return nil
}

func (cv *conv) readInit(t TypeID, ndim int, extents []uint64, raw []byte, p *convParams) (*ReadBuf, error) {
	cnt, err := checkDims(ndim, extents)
	if err != nil {
		return nil, err
	}
	info, err := cv.describe(t)
	if err != nil {
		return nil, err
	}

	n := ndim
	if ndim < 0 {
		n = 1
	}
	b := &ReadBuf{typ: t, ndim: ndim, extents: append([]uint64(nil), extents[:n]...), p: p}

	switch info.Class {
	case ClassNumeric:
		host, err := allocArray(numericReadKind(t, p), ndim, extents)
		if err != nil {
			return nil, err
		}
		b.host = host
		storSize := int(info.Size)
		hostElem := 8
		if _, ok := host.(*Ints); ok {
			hostElem = 4
		}
		switch {
		case raw != nil:
			b.Raw = raw
		case storSize <= hostElem && binary.NativeIsLittle():
			b.Raw = hostBytes(host)[:cnt*uint64(storSize)]
			b.inPlace = true
		default:
			b.Raw = make([]byte, cnt*uint64(storSize))
		}

	case ClassChar:
		if p.rawChar {
			host, err := allocArray(kindRaw, ndim, extents)
			if err != nil {
				return nil, err
			}
			b.host = host
			if raw != nil {
				b.Raw = raw
			} else {
				b.Raw = hostBytes(host)
				b.inPlace = true
			}
			break
		}
		width, scnt := charLayout(ndim, extents)
		if width*scnt > math.MaxInt32 {
			return nil, fmt.Errorf("character buffer length %d exceeds range of int: %w", width*scnt, ErrDataLength)
		}
		hostNdim := 0
		if ndim > 0 {
			hostNdim = ndim - 1
		}
		host, err := allocArray(kindString, hostNdim, extents)
		if err != nil {
			return nil, err
		}
		b.host = host
		if raw != nil {
			b.Raw = raw
		} else {
			b.Raw = make([]byte, width*scnt)
		}

	case ClassString:
		host, err := allocArray(kindString, ndim, extents)
		if err != nil {
			return nil, err
		}
		b.host = host
		b.Strings = make([]string, cnt)

	case ClassOpaque:
		host, err := allocOpaque(ndim, extents, int(info.Size))
		if err != nil {
			return nil, err
		}
		b.host = host
		if raw != nil {
			b.Raw = raw
		} else {
			b.Raw = host.Data
			b.inPlace = true
		}

	case ClassEnum:
		host, err := cv.allocFactor(t, ndim, extents)
		if err != nil {
			return nil, err
		}
		b.host = host
		if raw != nil {
			b.Raw = raw
		} else {
			b.Raw = make([]byte, cnt*info.Size)
		}

	case ClassVlen:
		host, err := allocArray(kindList, ndim, extents)
		if err != nil {
			return nil, err
		}
		b.host = host
		b.Vlens = make([]Vlen, cnt)

	case ClassCompound:
		host, err := cv.allocCompound(t, cnt)
		if err != nil {
			return nil, err
		}
		b.host = host
		if raw != nil {
			b.Raw = raw
		} else {
			b.Raw = make([]byte, cnt*info.Size)
		}

	default:
		return nil, fmt.Errorf("read of %s type %s: %w", info.Class, info.Name, ErrUnsupportedType)
	}
	return b, nil
}

func (cv *conv) populate(b *ReadBuf) (Value, error) {
	info, err := cv.describe(b.typ)
	if err != nil {
		return nil, err
	}

	switch info.Class {
	case ClassNumeric:
		err = populateNumeric(b.typ, b.Raw, b.host, b.p)

	case ClassChar:
		if b.p.rawChar {
			if !b.inPlace {
				copy(b.host.(*Bytes).Data, b.Raw)
			}
			break
		}
		width, _ := charLayout(b.ndim, b.extents)
		populateCharStrings(b.Raw, b.host.(*Strings).Data, width)

	case ClassString:
		populateStrStrings(b.Strings, b.host.(*Strings).Data)
		if cv.cat != nil {
			cv.cat.ReleaseStrings(b.Strings)
		}

	case ClassOpaque:
		if !b.inPlace {
			copy(b.host.(*Bytes).Data, b.Raw)
		}

	case ClassEnum:
		err = cv.populateEnumFactor(b.typ, b.Raw, b.host.(*Factor), b.p)

	case ClassVlen:
		err = cv.populateVlen(b, info)

	case ClassCompound:
		err = cv.populateCompound(b, info)

	default:
		err = fmt.Errorf("read of %s type %s: %w", info.Class, info.Name, ErrUnsupportedType)
	}
	if err != nil {
		return nil, err
	}
	return b.host, nil
}
