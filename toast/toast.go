// Package toast unwraps varlena datums: the length-prefixed, optionally
// compressed envelope PostgreSQL stores variable-length values in.
//
// A jsonb column value pulled straight out of a heap page is not a bare
// document: it starts with a 1-byte or 4-byte varlena header, and the
// payload may be compressed with pglz or lz4. Detoast strips the
// envelope and hands back the raw document bytes. Out-of-line toast
// pointers are rejected; chasing them needs the toast table, which only
// the caller can read.
//
// The header layout here is the little-endian one, matching the byte
// order assumed by the rest of this module.
package toast

import (
	"fmt"

	"github.com/pgbin/jsonb/endian"
	"github.com/pgbin/jsonb/errs"
)

const (
	// First-byte tags on a little-endian machine: an odd byte is a 1-byte
	// header, 0x01 itself marks an external toast pointer, and the low two
	// bits of a 4-byte header are 00 (plain) or 10 (compressed).
	tagExternal = 0x01
	tagMask4B   = 0x03
	tag4BPlain  = 0x00
	tag4BComp   = 0x02

	// The tcinfo word of a compressed datum: 30 bits of raw size plus a
	// 2-bit compression method id.
	rawSizeMask = 0x3FFFFFFF
	methodShift = 30
)

// Compression method ids stored in the top bits of the tcinfo word.
const (
	MethodPGLZ = 0
	MethodLZ4  = 1
)

// Detoast strips the varlena envelope from data and returns the payload,
// decompressing it if needed.
//
// Returns:
//   - []byte: Payload bytes; aliases data for uncompressed datums, newly
//     allocated for compressed ones
//   - error: errs.ErrInvalidInput, errs.ErrExternalDatum,
//     errs.ErrBadVarlenaHeader, errs.ErrUnknownCompressionMethod or
//     errs.ErrBadCompressedData
func Detoast(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errs.ErrInvalidInput
	}

	b0 := data[0]
	switch {
	case b0 == tagExternal:
		return nil, fmt.Errorf("datum is an out-of-line pointer: %w", errs.ErrExternalDatum)

	case b0&0x01 == 0x01:
		// 1-byte header: total size (header included) in the upper 7 bits.
		// Short datums are never compressed.
		total := int(b0 >> 1)
		if total < 1 || total > len(data) {
			return nil, fmt.Errorf("short header claims %d bytes of %d: %w",
				total, len(data), errs.ErrBadVarlenaHeader)
		}

		return data[1:total], nil

	case b0&tagMask4B == tag4BComp:
		return detoastCompressed(data)

	default: // tag4BPlain
		if len(data) < 4 {
			return nil, fmt.Errorf("truncated 4-byte header: %w", errs.ErrBadVarlenaHeader)
		}
		total := int(endian.Little().Uint32(data[0:4]) >> 2)
		if total < 4 || total > len(data) {
			return nil, fmt.Errorf("header claims %d bytes of %d: %w",
				total, len(data), errs.ErrBadVarlenaHeader)
		}

		return data[4:total], nil
	}
}

// detoastCompressed handles a 4-byte-header compressed datum: the header
// word, a tcinfo word carrying the raw size and method, then the
// compressed stream.
func detoastCompressed(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("truncated compressed header: %w", errs.ErrBadVarlenaHeader)
	}

	engine := endian.Little()
	total := int(engine.Uint32(data[0:4]) >> 2)
	if total < 8 || total > len(data) {
		return nil, fmt.Errorf("compressed header claims %d bytes of %d: %w",
			total, len(data), errs.ErrBadVarlenaHeader)
	}

	tcinfo := engine.Uint32(data[4:8])
	rawSize := int(tcinfo & rawSizeMask)
	method := int(tcinfo >> methodShift)

	dec, err := MethodDecompressor(method)
	if err != nil {
		return nil, err
	}

	return dec.Decompress(data[8:total], rawSize)
}
