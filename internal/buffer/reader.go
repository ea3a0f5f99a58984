// Package buffer provides the bounds-checked, read-only view all jsonb
// decoding goes through.
//
// A Reader never copies the underlying bytes except when materializing a
// decoded string; every accessor validates the requested range before
// touching it, so a truncated or hostile document fails with
// errs.ErrOutOfBounds instead of reading adjacent memory.
package buffer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pgbin/jsonb/endian"
	"github.com/pgbin/jsonb/errs"
)

// Reader is a non-owning window over a caller-supplied byte region.
//
// The caller must not mutate the region while a Reader over it is in use.
// A Reader holds no mutable state and is safe for concurrent reads.
type Reader struct {
	data   []byte
	engine endian.Engine
}

// NewReader creates a Reader over data using the given byte-order engine.
func NewReader(data []byte, engine endian.Engine) *Reader {
	return &Reader{data: data, engine: engine}
}

// Len returns the length of the underlying region in bytes.
func (r *Reader) Len() int {
	return len(r.data)
}

// check validates that [pos, pos+size) lies inside the buffer.
func (r *Reader) check(pos, size int) error {
	if pos < 0 || size < 0 || pos > len(r.data)-size {
		return fmt.Errorf("%d bytes at offset %d in a %d-byte buffer: %w",
			size, pos, len(r.data), errs.ErrOutOfBounds)
	}

	return nil
}

// Uint32 reads a 4-byte word at pos.
func (r *Reader) Uint32(pos int) (uint32, error) {
	if err := r.check(pos, 4); err != nil {
		return 0, err
	}

	return r.engine.Uint32(r.data[pos : pos+4]), nil
}

// Uint16 reads a 2-byte word at pos.
func (r *Reader) Uint16(pos int) (uint16, error) {
	if err := r.check(pos, 2); err != nil {
		return 0, err
	}

	return r.engine.Uint16(r.data[pos : pos+2]), nil
}

// Slice returns the sub-region [pos, pos+length) without copying.
//
// The returned slice aliases the underlying buffer and must not outlive
// it or be mutated.
func (r *Reader) Slice(pos, length int) ([]byte, error) {
	if err := r.check(pos, length); err != nil {
		return nil, err
	}

	return r.data[pos : pos+length], nil
}

// String decodes [pos, pos+length) as UTF-8 and returns it as a string.
//
// This is the one place the view copies: the returned string owns its
// bytes and survives the buffer. Invalid UTF-8 fails with
// errs.ErrInvalidString.
func (r *Reader) String(pos, length int) (string, error) {
	raw, err := r.Slice(pos, length)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%d bytes at offset %d: %w", length, pos, errs.ErrInvalidString)
	}

	return string(raw), nil
}
