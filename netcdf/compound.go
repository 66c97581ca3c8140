package netcdf

import "fmt"

// fieldExtents builds the storage extents of one compound field across
// cnt records: the record axis first, then the field's own dimensions.
func fieldExtents(cnt uint64, f CompoundField) []uint64 {
	ext := make([]uint64, 1+len(f.Dims))
	ext[0] = cnt
	for i, d := range f.Dims {
		ext[i+1] = uint64(d)
	}
	return ext
}

// fieldLen returns the element count of one record's worth of a field.
func fieldLen(f CompoundField) uint64 {
	n := uint64(1)
	for _, d := range f.Dims {
		n *= uint64(d)
	}
	return n
}

// fieldReadExtents builds the storage dims of one field's host array on
// read: the compound's own outer extents followed by the field's
// dimensions, so the host field keeps the outer shape instead of a
// collapsed record axis.
func fieldReadExtents(ndim int, extents []uint64, f CompoundField) (int, []uint64) {
	n := ndim
	if n < 0 {
		n = 1
	}
	ext := make([]uint64, n+len(f.Dims))
	copy(ext, extents[:n])
	for i, d := range f.Dims {
		ext[n+i] = uint64(d)
	}
	return n + len(f.Dims), ext
}

// listToCompound encodes a named host list as compound storage data.
// Records are zero-initialized, so padding between fields is
// deterministic. Each field converts through the scratch arena as a
// flat array across all records and is then scattered to its offset in
// every record. Fields take no fill or packing parameters. List entries
// that match no field are ignored.
func (cv *conv) listToCompound(v *List, t TypeID, info TypeInfo, cnt uint64, p *convParams) (*Encoded, error) {
	fields, err := cv.cat.CompoundFields(t)
	if err != nil {
		return nil, err
	}
	if v.Names == nil {
		return nil, fmt.Errorf("input list for compound type %s has no names: %w", info.Name, ErrMissingField)
	}
	byName := make(map[string]int, len(v.Names))
	for i := len(v.Names) - 1; i >= 0; i-- {
		byName[v.Names[i]] = i
	}

	size := info.Size
	out := cv.newBytes(int(cnt * size))
	none := &convParams{}
	for _, f := range fields {
		idx, ok := byName[f.Name]
		if !ok {
			return nil, fmt.Errorf("field %q of type %s: %w", f.Name, info.Name, ErrMissingField)
		}

		mark := cv.scr.Mark()
		prev := cv.useScratch
		cv.useScratch = true
		enc, err := cv.toStorage(v.Items[idx], f.Type, 1+len(f.Dims), fieldExtents(cnt, f), none)
		cv.useScratch = prev
		if err != nil {
			cv.scr.Release(mark)
			return nil, fmt.Errorf("field %q of type %s: %w", f.Name, info.Name, err)
		}
		if enc.Bytes == nil && cnt > 0 {
			cv.scr.Release(mark)
			return nil, fmt.Errorf("field %q has variable-length content: %w", f.Name, ErrUnsupportedType)
		}

		if cnt > 0 {
			fb := uint64(len(enc.Bytes)) / cnt
			for r := uint64(0); r < cnt; r++ {
				copy(out[r*size+f.Offset:r*size+f.Offset+fb], enc.Bytes[r*fb:(r+1)*fb])
			}
		}
		cv.scr.Release(mark)
	}
	return &Encoded{Bytes: out, Count: cnt, Owner: Owned}, nil
}

// allocCompound builds the host container for a compound read: a named
// list with one entry per field, populated field by field later.
func (cv *conv) allocCompound(t TypeID, cnt uint64) (*List, error) {
	fields, err := cv.cat.CompoundFields(t)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return &List{Items: make([]Value, len(fields)), Names: names}, nil
}

// populateCompound converts compound storage records into the host
// list. Each field is gathered from its per-record offsets into a
// contiguous arena staging buffer and then read with the compound's
// outer extents prepended to the field's own dimensions, so the host
// field arrays are shaped outer dims plus field dims. Fields honor only
// the representation hints; fill and packing parameters do not apply
// inside records.
func (cv *conv) populateCompound(b *ReadBuf, info TypeInfo) error {
	fields, err := cv.cat.CompoundFields(b.typ)
	if err != nil {
		return err
	}
	host := b.host.(*List)
	cnt := Length(b.ndim, b.extents)
	size := info.Size
	inner := &convParams{rawChar: b.p.rawChar, fitNum: b.p.fitNum}

	for fi, f := range fields {
		finfo, err := cv.describe(f.Type)
		if err != nil {
			return err
		}
		if finfo.Class == ClassString || finfo.Class == ClassVlen {
			return fmt.Errorf("field %q has variable-length content: %w", f.Name, ErrUnsupportedType)
		}

		fb := fieldLen(f) * finfo.Size
		mark := cv.scr.Mark()
		fraw := cv.scr.Alloc(int(cnt * fb))
		for r := uint64(0); r < cnt; r++ {
			copy(fraw[r*fb:(r+1)*fb], b.Raw[r*size+f.Offset:r*size+f.Offset+fb])
		}

		fndim, fext := fieldReadExtents(b.ndim, b.extents, f)
		fbuf, err := cv.readInit(f.Type, fndim, fext, fraw, inner)
		if err != nil {
			cv.scr.Release(mark)
			return fmt.Errorf("field %q of type %s: %w", f.Name, info.Name, err)
		}
		val, err := cv.populate(fbuf)
		if err != nil {
			cv.scr.Release(mark)
			return fmt.Errorf("field %q of type %s: %w", f.Name, info.Name, err)
		}
		host.Items[fi] = val
		cv.scr.Release(mark)
	}
	return nil
}
