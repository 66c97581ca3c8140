// Package netcdf converts values between a dynamic host array model and
// netCDF's strongly-typed in-memory storage encodings.
//
// The package is the marshalling core of a netCDF binding: it owns the
// host-to-storage and storage-to-host paths for every storage type,
// from the atomic numerics through fixed-width and variable-length text
// to the four user-defined classes (compound, enum, opaque, vlen),
// together with the range, fill-value and packing semantics that govern
// lossy conversions. It performs no disk I/O: raw buffers cross the boundary
// to an I/O layer that reads or writes the actual bytes.
//
// # Conversion Dispatch
//
// A Converter is bound to a Catalog, the type-metadata registry of an
// open dataset. Conversion is selected by two keys: the storage type's
// class and the host value's concrete representation:
//
//	Host value  | Storage types
//	------------|---------------------------------
//	*Ints       | any atomic numeric
//	*Doubles    | any atomic numeric
//	*Int64s     | any atomic numeric
//	*Factor     | enum (codes alone convert as *Ints)
//	*Strings    | char, string
//	*Bytes      | char, opaque
//	*List       | vlen, compound
//
// Combinations outside the table fail with ErrUnsupportedType.
//
// # Two-Phase Reads
//
// Writing is single-phase: ToStorage validates the host value against
// the requested shape and returns an encoded buffer. Reading is
// two-phase: ReadInit allocates the host container and a raw buffer for
// the I/O layer to fill, and Populate then converts the raw bytes and
// attaches host-side metadata such as factor levels.
//
// # In-Place Buffers
//
// When the storage element width does not exceed the host element width
// and the platform is little-endian, the raw read buffer aliases the
// host container's backing array and conversion runs in place, in
// reverse element order so no input element is overwritten before it is
// read. ToStorage similarly returns a buffer borrowed from the host
// value when no conversion work is needed; Encoded.Owner records which
// case applied.
//
// # Missing Values
//
// Host missing sentinels are MissingInt, MissingInt64 and NaN. On
// write, a missing element becomes the configured fill value or the
// conversion fails. On read, elements equal to the fill value or
// outside the configured valid range become the host sentinel.
package netcdf
