package netcdf

import "errors"

// Conversion failures. Every failure is terminal for the enclosing
// conversion call; errors are wrapped with field or element context
// where available and can be tested with errors.Is.
var (
	ErrDataLength      = errors.New("data length does not match requested dimensions")
	ErrRange           = errors.New("value out of range for storage type")
	ErrMissingValue    = errors.New("missing value without configured fill value")
	ErrUnknownMember   = errors.New("level has no matching member in enum type")
	ErrUnknownValue    = errors.New("unknown enum value in storage data")
	ErrMissingField    = errors.New("compound field not found in input list")
	ErrUnsupportedType = errors.New("unsupported conversion between storage type and host value")
	ErrBadType         = errors.New("invalid type definition")
)

// maxStringLen is the longest string the host model accepts; longer
// storage strings are truncated on read.
const maxStringLen = 1<<31 - 1
