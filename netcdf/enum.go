package netcdf

import "fmt"

// fillPattern extracts a raw byte-pattern fill parameter for enum and
// opaque conversions.
func fillPattern(p *convParams, size int) ([]byte, error) {
	if p.fill == nil {
		return nil, nil
	}
	pat, ok := p.fill.([]byte)
	if !ok {
		return nil, fmt.Errorf("fill value %T for byte-pattern type: %w", p.fill, ErrUnsupportedType)
	}
	if len(pat) != size {
		return nil, fmt.Errorf("fill pattern is %d bytes, type is %d: %w", len(pat), size, ErrUnsupportedType)
	}
	return pat, nil
}

// factorToEnum encodes a categorical host array as enum storage data.
// Every level must name a member of the enum type; codes index the
// levels 1-based. Missing codes store the fill pattern when one is
// configured and fail the conversion otherwise.
func (cv *conv) factorToEnum(v *Factor, t TypeID, cnt uint64, p *convParams) (*Encoded, error) {
	info, err := cv.describe(t)
	if err != nil {
		return nil, err
	}
	members, err := cv.cat.EnumMembers(t)
	if err != nil {
		return nil, err
	}
	size := int(info.Size)

	byName := make(map[string][]byte, len(members))
	for _, m := range members {
		byName[m.Name] = m.Value
	}
	values := make([][]byte, len(v.Levels))
	for i, name := range v.Levels {
		val, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("level %q of type %s: %w", name, info.Name, ErrUnknownMember)
		}
		values[i] = val
	}

	fill, err := fillPattern(p, size)
	if err != nil {
		return nil, err
	}
	if uint64(len(v.Codes)) < cnt {
		return nil, fmt.Errorf("have %d codes, need %d: %w", len(v.Codes), cnt, ErrDataLength)
	}

	out := cv.newBytes(int(cnt) * size)
	for i := uint64(0); i < cnt; i++ {
		code := v.Codes[i]
		switch {
		case isMissingInt(code):
			if fill == nil {
				return nil, fmt.Errorf("element %d: %w", i, ErrMissingValue)
			}
			copy(out[i*uint64(size):], fill)
		case code >= 1 && int(code) <= len(values):
			copy(out[i*uint64(size):], values[code-1])
		default:
			return nil, fmt.Errorf("code %d at element %d: %w", code, i, ErrUnknownMember)
		}
	}
	return &Encoded{Bytes: out, Count: cnt, Owner: Owned}, nil
}

// allocFactor builds the host container for an enum read, with the
// levels taken from the type's members in definition order.
func (cv *conv) allocFactor(t TypeID, ndim int, extents []uint64) (*Factor, error) {
	members, err := cv.cat.EnumMembers(t)
	if err != nil {
		return nil, err
	}
	levels := make([]string, len(members))
	for i, m := range members {
		levels[i] = m.Name
	}
	shape, err := hostShape(ndim, extents)
	if err != nil {
		return nil, err
	}
	n := Length(ndim, extents)
	if ndim == 0 {
		n = 1
	}
	return &Factor{Codes: make([]int32, n), Levels: levels, Dims: shape}, nil
}

// populateEnumFactor decodes enum storage data into the codes of a
// factor allocated by allocFactor. Member byte patterns map to 1-based
// codes; the fill pattern, when configured, maps to the missing
// sentinel even when it collides with a member.
func (cv *conv) populateEnumFactor(t TypeID, raw []byte, f *Factor, p *convParams) error {
	info, err := cv.describe(t)
	if err != nil {
		return err
	}
	members, err := cv.cat.EnumMembers(t)
	if err != nil {
		return err
	}
	size := info.Size

	lookup := make(map[string]int32, len(members)+1)
	for i, m := range members {
		lookup[string(m.Value)] = int32(i + 1)
	}
	fill, err := fillPattern(p, int(size))
	if err != nil {
		return err
	}
	if fill != nil {
		lookup[string(fill)] = MissingInt
	}

	for i := range f.Codes {
		pat := raw[uint64(i)*size : uint64(i+1)*size]
		code, ok := lookup[string(pat)]
		if !ok {
			return fmt.Errorf("element %d of type %s: %w", i, info.Name, ErrUnknownValue)
		}
		f.Codes[i] = code
	}
	return nil
}
