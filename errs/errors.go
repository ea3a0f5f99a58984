// Package errs defines the sentinel errors shared across the jsonb
// decoder packages.
//
// Call sites wrap these with fmt.Errorf("...: %w", err) to attach
// positions and offending values; callers match with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidInput indicates the supplied datum is nil or empty.
	ErrInvalidInput = errors.New("input buffer is nil or empty")

	// ErrOutOfBounds indicates a read past the end of the input buffer.
	ErrOutOfBounds = errors.New("read exceeds buffer bounds")

	// ErrNotParsed indicates the parser result was accessed before a
	// successful Parse call.
	ErrNotParsed = errors.New("no data parsed yet")

	// ErrBadRootHeader indicates the root container header is neither an
	// object nor an array, or a scalar root does not hold exactly one
	// element.
	ErrBadRootHeader = errors.New("bad root container header")

	// ErrBadContainerHeader indicates a nested container header with an
	// invalid flag combination.
	ErrBadContainerHeader = errors.New("bad container header")

	// ErrBadEntryHeader indicates an entry word with an unknown type tag,
	// or an object key entry that is not a string.
	ErrBadEntryHeader = errors.New("bad entry header")

	// ErrInvalidString indicates string bytes that are not valid UTF-8.
	ErrInvalidString = errors.New("string is not valid UTF-8")

	// ErrBadNumericHeader indicates a numeric header word that matches no
	// known variant, or a truncated digit sequence.
	ErrBadNumericHeader = errors.New("bad numeric header")

	// ErrLongNumericUnsupported indicates the long numeric on-disk format,
	// which this decoder does not implement.
	ErrLongNumericUnsupported = errors.New("long numeric format not supported")

	// ErrMaxDepthExceeded indicates container nesting deeper than the
	// configured limit.
	ErrMaxDepthExceeded = errors.New("container nesting exceeds maximum depth")

	// ErrInvalidMaxDepth indicates a non-positive WithMaxDepth value.
	ErrInvalidMaxDepth = errors.New("maximum depth must be positive")

	// ErrBadVarlenaHeader indicates a datum whose varlena header does not
	// parse or whose declared sizes disagree with the buffer.
	ErrBadVarlenaHeader = errors.New("bad varlena header")

	// ErrExternalDatum indicates an out-of-line toast pointer, which must
	// be fetched by the caller before decoding.
	ErrExternalDatum = errors.New("external toast datum not supported")

	// ErrBadCompressedData indicates a compressed payload that is corrupt
	// or does not expand to the declared raw size.
	ErrBadCompressedData = errors.New("bad compressed data")

	// ErrUnknownCompressionMethod indicates a toast compression method id
	// this decoder does not know.
	ErrUnknownCompressionMethod = errors.New("unknown toast compression method")
)
