package netcdf

import "fmt"

// vlenItemLen returns the storage element count one host item
// contributes to a vlen element. For a char base a string item encodes
// its characters; for an opaque base a byte item encodes whole
// size-byte elements; everything else contributes one storage element
// per host element.
func vlenItemLen(item Value, baseInfo TypeInfo) uint64 {
	switch v := item.(type) {
	case *Strings:
		if baseInfo.Class == ClassChar {
			if len(v.Data) == 0 {
				return 0
			}
			return uint64(len(v.Data[0]))
		}
	case *Bytes:
		if baseInfo.Class == ClassOpaque {
			return uint64(len(v.Data)) / baseInfo.Size
		}
	}
	return uint64(item.Len())
}

// listToVlen encodes a host list as variable-length storage data. Each
// item converts independently as a flat vector of the base type; empty
// and nil items become zero-length elements with no content buffer.
func (cv *conv) listToVlen(v *List, t TypeID, info TypeInfo, cnt uint64, p *convParams) (*Encoded, error) {
	if uint64(len(v.Items)) < cnt {
		return nil, fmt.Errorf("have %d items, need %d: %w", len(v.Items), cnt, ErrDataLength)
	}
	baseInfo, err := cv.describe(info.Base)
	if err != nil {
		return nil, err
	}

	out := make([]Vlen, cnt)
	for i := uint64(0); i < cnt; i++ {
		item := v.Items[i]
		if item == nil {
			continue
		}
		n := vlenItemLen(item, baseInfo)
		if n == 0 {
			continue
		}
		enc, err := cv.toStorage(item, info.Base, ShapeVector, []uint64{n}, p)
		if err != nil {
			return nil, fmt.Errorf("element %d of type %s: %w", i, info.Name, err)
		}
		out[i] = Vlen{Len: n, Data: enc.Bytes, Strings: enc.Strings, Vlens: enc.Vlens}
	}
	return &Encoded{Vlens: out, Count: cnt, Owner: Owned}, nil
}

// populateVlen converts the storage vlen elements of a read into host
// values, one flat vector of the base type per element. Each storage
// element is handed back to the catalog once its content is copied.
func (cv *conv) populateVlen(b *ReadBuf, info TypeInfo) error {
	host := b.host.(*List)
	for i := range b.Vlens {
		v := &b.Vlens[i]
		inner, err := cv.readInit(info.Base, ShapeVector, []uint64{v.Len}, v.Data, b.p)
		if err != nil {
			return fmt.Errorf("element %d of type %s: %w", i, info.Name, err)
		}
		copy(inner.Strings, v.Strings)
		copy(inner.Vlens, v.Vlens)
		val, err := cv.populate(inner)
		if err != nil {
			return fmt.Errorf("element %d of type %s: %w", i, info.Name, err)
		}
		host.Items[i] = val
		if cv.cat != nil {
			cv.cat.ReleaseVlen(v)
		}
	}
	return nil
}
