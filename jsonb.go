// Package jsonb decodes the PostgreSQL jsonb on-disk binary format into
// an in-memory value tree.
//
// A jsonb document is a tree of 4-byte-aligned containers. Each container
// starts with a header word (kind flags plus element count) followed by a
// table of fixed-size entry words and a value area holding the
// variable-length data. Entries store either the value's byte length or
// its cumulative end offset within the value area; the encoder trades the
// two off per entry (offsets give O(1) element lookup, lengths compress
// better) and this decoder handles both uniformly. Numeric scalars use
// the packed-decimal encoding handled by the numeric sub-package.
//
// # Basic Usage
//
// Decoding a document in one step:
//
//	import "github.com/pgbin/jsonb"
//
//	value, err := jsonb.Decode(data)
//	if err != nil {
//	    return err
//	}
//	for _, m := range value.Members() {
//	    fmt.Printf("%s = %v\n", m.Key, m.Value.Interface())
//	}
//
// Or in two steps, constructing a parser over a buffer and retrieving the
// result after Parse:
//
//	parser, _ := jsonb.NewParser(data)
//	if err := parser.Parse(); err != nil {
//	    return err
//	}
//	value, _ := parser.Value()
//
// DecodeDatum accepts a whole varlena datum as stored in a heap page,
// unwrapping the length header and decompressing pglz or lz4 payloads
// before decoding.
//
// # Limitations
//
// All multi-byte words are read little-endian. The format carries no
// byte-order indicator, so documents written by a big-endian server are
// out of scope and will fail to decode rather than decode wrongly. The
// long numeric variant is not implemented and is rejected explicitly.
//
// Decoding is a pure function of the input buffer: no state survives a
// call, and concurrent decodes of distinct buffers are safe. The caller
// must not mutate a buffer while a decode over it is running.
package jsonb

import (
	"fmt"

	"github.com/pgbin/jsonb/endian"
	"github.com/pgbin/jsonb/errs"
	"github.com/pgbin/jsonb/internal/buffer"
	"github.com/pgbin/jsonb/internal/options"
	"github.com/pgbin/jsonb/toast"
)

// DefaultMaxDepth is the container nesting limit applied unless
// WithMaxDepth overrides it. Recursion tracks nesting depth, so the limit
// also bounds stack growth on pathological input.
const DefaultMaxDepth = 1024

// Option configures a Parser.
type Option = options.Option[*Parser]

// WithMaxDepth sets the maximum container nesting depth. Documents
// nesting deeper fail with errs.ErrMaxDepthExceeded. A non-positive n is
// rejected with errs.ErrInvalidMaxDepth.
func WithMaxDepth(n int) Option {
	return options.New(func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("%d: %w", n, errs.ErrInvalidMaxDepth)
		}
		p.maxDepth = n

		return nil
	})
}

// Parser decodes one jsonb document in two steps: construct over a
// buffer, Parse, then retrieve the result with Value.
//
// A Parser borrows the buffer and never copies it except when
// materializing decoded strings; the buffer must not be mutated until
// Parse returns. Each Parser handles a single buffer; it is not safe for
// concurrent use, but independent Parsers over distinct buffers are.
type Parser struct {
	data     []byte
	maxDepth int
	value    Value
	parsed   bool
}

// NewParser creates a Parser over data.
//
// Returns:
//   - *Parser: Parser ready for Parse
//   - error: Option validation error
func NewParser(data []byte, opts ...Option) (*Parser, error) {
	p := &Parser{
		data:     data,
		maxDepth: DefaultMaxDepth,
	}

	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	return p, nil
}

// Parse decodes the buffer. The result becomes available through Value.
//
// Errors are eager and terminal: the first malformed word or
// out-of-bounds read aborts the decode, and no partial tree is retained.
func (p *Parser) Parse() error {
	if len(p.data) == 0 {
		return errs.ErrInvalidInput
	}

	d := &decoder{
		buf:      buffer.NewReader(p.data, endian.Little()),
		maxDepth: p.maxDepth,
	}

	value, err := d.root()
	if err != nil {
		return err
	}

	p.value = value
	p.parsed = true

	return nil
}

// Value returns the decoded tree.
//
// Returns:
//   - Value: Result of the last successful Parse
//   - error: errs.ErrNotParsed if Parse has not succeeded yet
func (p *Parser) Value() (Value, error) {
	if !p.parsed {
		return Value{}, errs.ErrNotParsed
	}

	return p.value, nil
}

// Decode decodes a jsonb document whose root container header sits at
// offset 0 of data.
func Decode(data []byte, opts ...Option) (Value, error) {
	p, err := NewParser(data, opts...)
	if err != nil {
		return Value{}, err
	}

	if err := p.Parse(); err != nil {
		return Value{}, err
	}

	return p.Value()
}

// DecodeDatum decodes a whole jsonb datum as stored in a heap page: a
// varlena length header, possibly pglz- or lz4-compressed, wrapping the
// document. Out-of-line toast pointers are rejected with
// errs.ErrExternalDatum; the caller must fetch those first.
func DecodeDatum(data []byte, opts ...Option) (Value, error) {
	payload, err := toast.Detoast(data)
	if err != nil {
		return Value{}, err
	}

	return Decode(payload, opts...)
}
