package netcdf

import (
	"fmt"
	"sync"
)

// Registry is an in-memory Catalog. It hands out type ids from
// FirstUserType upward and validates definitions at registration time,
// so conversions can trust the metadata they read back. A base type
// must exist before a type referring to it can be defined, which keeps
// the type graph acyclic. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	next  TypeID
	types map[TypeID]*typeDef
}

type typeDef struct {
	info    TypeInfo
	members []EnumMember
	fields  []CompoundField
}

func NewRegistry() *Registry {
	return &Registry{next: FirstUserType, types: make(map[TypeID]*typeDef)}
}

func (r *Registry) add(def *typeDef) TypeID {
	id := r.next
	r.next++
	r.types[id] = def
	return id
}

// lookup resolves t while r.mu is held.
func (r *Registry) lookup(t TypeID) (TypeInfo, error) {
	if t.IsAtomic() {
		return atomicInfo[t], nil
	}
	def, ok := r.types[t]
	if !ok {
		return TypeInfo{}, fmt.Errorf("type %s is not defined: %w", t, ErrBadType)
	}
	return def.info, nil
}

// DefOpaque defines an opaque type of size bytes per element.
func (r *Registry) DefOpaque(name string, size uint64) (TypeID, error) {
	if size == 0 {
		return TypeNone, fmt.Errorf("opaque type %q with zero size: %w", name, ErrBadType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(&typeDef{info: TypeInfo{Name: name, Class: ClassOpaque, Size: size}}), nil
}

// DefEnum defines an enum type over an atomic integer base. Member
// values are the raw little-endian bytes at the base type's width.
func (r *Registry) DefEnum(name string, base TypeID, members []EnumMember) (TypeID, error) {
	if !base.IsInteger() {
		return TypeNone, fmt.Errorf("enum type %q with base %s: %w", name, base, ErrBadType)
	}
	if len(members) == 0 {
		return TypeNone, fmt.Errorf("enum type %q with no members: %w", name, ErrBadType)
	}
	size := atomicInfo[base].Size
	for _, m := range members {
		if uint64(len(m.Value)) != size {
			return TypeNone, fmt.Errorf("enum member %q is %d bytes, base %s is %d: %w",
				m.Name, len(m.Value), base, size, ErrBadType)
		}
	}
	own := make([]EnumMember, len(members))
	for i, m := range members {
		own[i] = EnumMember{Name: m.Name, Value: append([]byte(nil), m.Value...)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(&typeDef{
		info:    TypeInfo{Name: name, Class: ClassEnum, Size: size, Base: base},
		members: own,
	}), nil
}

// DefVlen defines a variable-length type whose elements are flat
// vectors of base. The base may be any atomic or already-defined type.
func (r *Registry) DefVlen(name string, base TypeID) (TypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.lookup(base); err != nil {
		return TypeNone, fmt.Errorf("vlen type %q: %w", name, err)
	}
	return r.add(&typeDef{
		info: TypeInfo{Name: name, Class: ClassVlen, Base: base},
	}), nil
}

// DefCompound defines a compound type of size bytes per record. Every
// field must be of a fixed-size, already-defined type and lie entirely
// within the record.
func (r *Registry) DefCompound(name string, size uint64, fields []CompoundField) (TypeID, error) {
	if size == 0 {
		return TypeNone, fmt.Errorf("compound type %q with zero size: %w", name, ErrBadType)
	}
	if len(fields) == 0 {
		return TypeNone, fmt.Errorf("compound type %q with no fields: %w", name, ErrBadType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	own := make([]CompoundField, len(fields))
	for i, f := range fields {
		finfo, err := r.lookup(f.Type)
		if err != nil {
			return TypeNone, fmt.Errorf("compound field %q: %w", f.Name, err)
		}
		if finfo.Class == ClassString || finfo.Class == ClassVlen {
			return TypeNone, fmt.Errorf("compound field %q of %s type %s: %w",
				f.Name, finfo.Class, finfo.Name, ErrBadType)
		}
		n := uint64(1)
		for _, d := range f.Dims {
			if d < 0 {
				return TypeNone, fmt.Errorf("compound field %q with negative dimension: %w", f.Name, ErrBadType)
			}
			n *= uint64(d)
		}
		if f.Offset+n*finfo.Size > size {
			return TypeNone, fmt.Errorf("compound field %q ends at byte %d, record is %d: %w",
				f.Name, f.Offset+n*finfo.Size, size, ErrBadType)
		}
		own[i] = CompoundField{
			Name:   f.Name,
			Offset: f.Offset,
			Type:   f.Type,
			Dims:   append([]int(nil), f.Dims...),
		}
	}
	return r.add(&typeDef{
		info:   TypeInfo{Name: name, Class: ClassCompound, Size: size},
		fields: own,
	}), nil
}

func (r *Registry) Describe(t TypeID) (TypeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(t)
}

func (r *Registry) EnumMembers(t TypeID) ([]EnumMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[t]
	if !ok || def.info.Class != ClassEnum {
		return nil, fmt.Errorf("type %s is not an enum: %w", t, ErrBadType)
	}
	return def.members, nil
}

func (r *Registry) CompoundFields(t TypeID) ([]CompoundField, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.types[t]
	if !ok || def.info.Class != ClassCompound {
		return nil, fmt.Errorf("type %s is not a compound: %w", t, ErrBadType)
	}
	return def.fields, nil
}

// ReleaseVlen drops the element's content buffers. The in-memory
// registry has no storage-side allocations to free.
func (r *Registry) ReleaseVlen(v *Vlen) {
	v.Data, v.Strings, v.Vlens = nil, nil, nil
}

func (r *Registry) ReleaseStrings(s []string) {}
