package toast

import (
	"fmt"

	"github.com/pgbin/jsonb/errs"
)

// Decompressor expands a toast-compressed payload back to its declared
// raw size.
//
// The raw size comes from the datum's tcinfo word, so implementations
// must treat any mismatch between it and the actual expansion as
// corruption, not truncate or over-read silently.
//
// Implementations are stateless and safe for concurrent use.
type Decompressor interface {
	// Decompress expands src into a newly allocated slice of exactly
	// rawSize bytes, failing with errs.ErrBadCompressedData otherwise.
	Decompress(src []byte, rawSize int) ([]byte, error)
}

var decompressors = map[int]Decompressor{
	MethodPGLZ: PGLZDecompressor{},
	MethodLZ4:  LZ4Decompressor{},
}

// MethodDecompressor returns the Decompressor for a tcinfo method id.
//
// Returns:
//   - Decompressor: Implementation for the method
//   - error: errs.ErrUnknownCompressionMethod for ids this decoder does
//     not know
func MethodDecompressor(method int) (Decompressor, error) {
	if dec, ok := decompressors[method]; ok {
		return dec, nil
	}

	return nil, fmt.Errorf("method %d: %w", method, errs.ErrUnknownCompressionMethod)
}
