package toast

import (
	"fmt"

	"github.com/pgbin/jsonb/errs"
)

// PGLZDecompressor expands the historical pglz format, the default toast
// compression.
//
// The stream is a sequence of control bytes, each governing up to eight
// items, LSB first: a clear bit means one literal byte, a set bit a
// back-reference of 3 to 273 bytes copied from the output produced so
// far. A back-reference is two bytes — 4 bits of length minus 3 and 12
// bits of offset — plus an extension byte when the 4-bit length
// saturates. Matches may overlap their own output, so the copy runs one
// byte at a time.
type PGLZDecompressor struct{}

var _ Decompressor = PGLZDecompressor{}

// Decompress expands src into exactly rawSize bytes.
func (PGLZDecompressor) Decompress(src []byte, rawSize int) ([]byte, error) {
	dst := make([]byte, 0, rawSize)

	sp := 0
	for sp < len(src) && len(dst) < rawSize {
		ctrl := src[sp]
		sp++

		for bit := 0; bit < 8 && sp < len(src) && len(dst) < rawSize; bit++ {
			if ctrl&1 == 0 {
				dst = append(dst, src[sp])
				sp++
				ctrl >>= 1

				continue
			}

			if sp+1 >= len(src) {
				return nil, fmt.Errorf("pglz: truncated back-reference at %d: %w", sp, errs.ErrBadCompressedData)
			}
			length := int(src[sp]&0x0F) + 3
			offset := int(src[sp]&0xF0)<<4 | int(src[sp+1])
			sp += 2
			if length == 18 {
				if sp >= len(src) {
					return nil, fmt.Errorf("pglz: truncated length extension: %w", errs.ErrBadCompressedData)
				}
				length += int(src[sp])
				sp++
			}

			if offset == 0 || offset > len(dst) {
				return nil, fmt.Errorf("pglz: back-reference offset %d outside %d bytes of output: %w",
					offset, len(dst), errs.ErrBadCompressedData)
			}

			for i := 0; i < length; i++ {
				if len(dst) >= rawSize {
					break
				}
				dst = append(dst, dst[len(dst)-offset])
			}

			ctrl >>= 1
		}
	}

	if len(dst) != rawSize {
		return nil, fmt.Errorf("pglz: expanded to %d bytes, expected %d: %w",
			len(dst), rawSize, errs.ErrBadCompressedData)
	}

	return dst, nil
}
