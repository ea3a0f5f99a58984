package section

import (
	"fmt"

	"github.com/pgbin/jsonb/errs"
)

// ContainerHeader is the 4-byte word at the start of every container.
//
// The low 28 bits hold the element count (for arrays) or pair count (for
// objects); the high bits flag the container kind. Exactly one of the
// object/array flags is set on well-formed input, and the scalar flag
// appears only together with the array flag: a bare scalar document is
// stored as a one-element pseudo-array.
type ContainerHeader uint32

// Count returns the number of elements (array) or key/value pairs
// (object) in the container.
func (h ContainerHeader) Count() int {
	return int(h & CountMask)
}

// IsArray reports whether the container is an array.
func (h ContainerHeader) IsArray() bool {
	return h&FlagArray != 0
}

// IsObject reports whether the container is an object.
func (h ContainerHeader) IsObject() bool {
	return h&FlagObject != 0
}

// IsScalar reports whether the container is a pseudo-array wrapping a
// single root scalar.
func (h ContainerHeader) IsScalar() bool {
	return h&FlagScalar != 0
}

// Validate checks the flag bits for a legal combination: exactly one of
// object/array, scalar only alongside array.
//
// Returns:
//   - error: errs.ErrBadContainerHeader if the combination is illegal
func (h ContainerHeader) Validate() error {
	if h.IsArray() == h.IsObject() {
		return fmt.Errorf("0x%08x: %w", uint32(h), errs.ErrBadContainerHeader)
	}
	if h.IsScalar() && !h.IsArray() {
		return fmt.Errorf("0x%08x: scalar flag on non-array: %w", uint32(h), errs.ErrBadContainerHeader)
	}

	return nil
}

// String returns a human-readable description for debugging.
func (h ContainerHeader) String() string {
	kind := "invalid"
	switch {
	case h.IsArray() && !h.IsObject():
		kind = "array"
		if h.IsScalar() {
			kind = "scalar"
		}
	case h.IsObject() && !h.IsArray():
		kind = "object"
	}

	return fmt.Sprintf("%s(count=%d)", kind, h.Count())
}
