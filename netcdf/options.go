package netcdf

// Option configures a single conversion call.
type Option func(*convParams)

// convParams carries the optional numeric transform and representation
// hints through a conversion. All fields default to unset.
type convParams struct {
	fill  any // storage-typed fill; []byte pattern for enum
	min   any // valid-range lower bound, storage-typed
	max   any // valid-range upper bound, storage-typed
	scale *float64
	add   *float64

	rawChar bool // return fixed-width character data as raw bytes
	fitNum  bool // prefer native-width integer host containers
}

func newParams(opts []Option) *convParams {
	p := &convParams{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// unpack reports whether a linear transform is configured; unpacked
// reads always land in a double host container.
func (p *convParams) unpack() bool { return p.scale != nil || p.add != nil }

// factor returns the configured scale, defaulting to 1.
func (p *convParams) factor() float64 {
	if p.scale != nil {
		return *p.scale
	}
	return 1.0
}

// offset returns the configured additive offset, defaulting to 0.
func (p *convParams) offset() float64 {
	if p.add != nil {
		return *p.add
	}
	return 0.0
}

// WithFill sets the storage fill value. On write, host missing
// sentinels are stored as the fill value; on read, storage elements
// equal to it become the host missing sentinel. Numeric types accept
// any numeric scalar; enum types take the member's raw byte pattern.
func WithFill(v any) Option {
	return func(p *convParams) { p.fill = v }
}

// WithValidMin sets the smallest storage value treated as valid on
// read; smaller values become the host missing sentinel.
func WithValidMin(v any) Option {
	return func(p *convParams) { p.min = v }
}

// WithValidMax sets the largest storage value treated as valid on
// read; larger values become the host missing sentinel.
func WithValidMax(v any) Option {
	return func(p *convParams) { p.max = v }
}

// WithScale sets the packing scale factor. Reads unpack with
// value*scale+offset; writes pack with round((value-offset)/scale).
func WithScale(s float64) Option {
	return func(p *convParams) { p.scale = &s }
}

// WithOffset sets the packing additive offset.
func WithOffset(a float64) Option {
	return func(p *convParams) { p.add = &a }
}

// WithRawBytes returns fixed-width character data as a raw byte array
// with the character axis kept, instead of a string array.
func WithRawBytes() Option {
	return func(p *convParams) { p.rawChar = true }
}

// WithNativeInts reads integer storage types into native-width integer
// host containers when the conversion is lossless: small integer types
// into Ints, the 64-bit types into Int64s. Without it, all numeric
// reads land in Doubles. A packing transform overrides this hint.
func WithNativeInts() Option {
	return func(p *convParams) { p.fitNum = true }
}
