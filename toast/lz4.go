package toast

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/pgbin/jsonb/errs"
)

// LZ4Decompressor expands lz4 block streams, the toast compression
// servers since PostgreSQL 14 may use. The datum stores a raw block
// without frame headers; the decompressed size comes from the tcinfo
// word instead.
type LZ4Decompressor struct{}

var _ Decompressor = LZ4Decompressor{}

// Decompress expands src into exactly rawSize bytes.
func (LZ4Decompressor) Decompress(src []byte, rawSize int) ([]byte, error) {
	if rawSize == 0 {
		if len(src) != 0 {
			return nil, fmt.Errorf("lz4: %d compressed bytes for an empty datum: %w",
				len(src), errs.ErrBadCompressedData)
		}

		return []byte{}, nil
	}

	dst := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %v: %w", err, errs.ErrBadCompressedData)
	}
	if n != rawSize {
		return nil, fmt.Errorf("lz4: expanded to %d bytes, expected %d: %w",
			n, rawSize, errs.ErrBadCompressedData)
	}

	return dst, nil
}
