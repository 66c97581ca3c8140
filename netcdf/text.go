package netcdf

import (
	"bytes"
	"fmt"
)

// charLayout splits a char array's extents into the per-string width
// and the number of strings. The fastest-varying storage axis holds the
// characters of one string, so for a dimensioned array the width is the
// last extent and the count is the product of the rest. A flat vector
// is a single string of extents[0] characters; a scalar is a single
// one-character string.
func charLayout(ndim int, extents []uint64) (width, cnt uint64) {
	switch {
	case ndim > 0:
		width = extents[ndim-1]
		cnt = 1
		for i := 0; i < ndim-1; i++ {
			cnt *= extents[i]
		}
	case ndim < 0:
		width, cnt = extents[0], 1
	default:
		width, cnt = 1, 1
	}
	return width, cnt
}

// stringsToChar encodes a host string array as fixed-width character
// data. Each string is copied into its width-sized slot; short strings
// are padded with NUL bytes and long strings are silently clipped.
func (cv *conv) stringsToChar(v *Strings, ndim int, extents []uint64) (*Encoded, error) {
	width, cnt := charLayout(ndim, extents)
	if uint64(len(v.Data)) < cnt {
		return nil, fmt.Errorf("have %d strings, need %d: %w", len(v.Data), cnt, ErrDataLength)
	}
	out := cv.newBytes(int(width * cnt))
	for i := uint64(0); i < cnt; i++ {
		copy(out[i*width:(i+1)*width], v.Data[i])
	}
	return &Encoded{Bytes: out, Count: width * cnt, Owner: Owned}, nil
}

// bytesToChar encodes a host byte array as character data without
// copying. The host value must supply one byte per storage element.
func bytesToChar(v *Bytes, ndim int, extents []uint64) (*Encoded, error) {
	total := Length(ndim, extents)
	if uint64(len(v.Data)) < total {
		return nil, fmt.Errorf("have %d bytes, need %d: %w", len(v.Data), total, ErrDataLength)
	}
	return &Encoded{Bytes: v.Data[:total], Count: total, Owner: Borrowed}, nil
}

// stringsToStr encodes a host string array for a variable-length string
// type. The strings themselves travel on the Strings side channel; the
// storage layer owns turning them into its string representation.
func stringsToStr(v *Strings, cnt uint64) (*Encoded, error) {
	if uint64(len(v.Data)) < cnt {
		return nil, fmt.Errorf("have %d strings, need %d: %w", len(v.Data), cnt, ErrDataLength)
	}
	return &Encoded{Strings: v.Data[:cnt], Count: cnt, Owner: Borrowed}, nil
}

// populateCharStrings decodes fixed-width character data into host
// strings. Each slot ends at its first NUL byte, or spans the full
// width when none is present, capped at the host string ceiling.
func populateCharStrings(raw []byte, out []string, width uint64) {
	limit := width
	if limit > maxStringLen {
		limit = maxStringLen
	}
	for i := range out {
		seg := raw[uint64(i)*width : uint64(i)*width+limit]
		if idx := bytes.IndexByte(seg, 0); idx >= 0 {
			seg = seg[:idx]
		}
		out[i] = string(seg)
	}
}

// populateStrStrings moves storage-owned strings from the read buffer's
// side channel into the host array, clipping to the host ceiling.
func populateStrStrings(in, out []string) {
	for i := range out {
		s := in[i]
		if len(s) > maxStringLen {
			s = s[:maxStringLen]
		}
		out[i] = s
	}
}
