package section

import (
	"fmt"

	"github.com/pgbin/jsonb/errs"
)

// EntryType is the 3-bit type tag of an entry word, stored in bits 28-30.
type EntryType uint32

const (
	TypeString    EntryType = 0x00000000 // UTF-8 string
	TypeNumeric   EntryType = 0x10000000 // packed numeric
	TypeBoolFalse EntryType = 0x20000000 // boolean false, no value bytes
	TypeBoolTrue  EntryType = 0x30000000 // boolean true, no value bytes
	TypeNull      EntryType = 0x40000000 // null, no value bytes
	TypeContainer EntryType = 0x50000000 // nested array or object
)

func (t EntryType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumeric:
		return "numeric"
	case TypeBoolFalse:
		return "false"
	case TypeBoolTrue:
		return "true"
	case TypeNull:
		return "null"
	case TypeContainer:
		return "container"
	default:
		return "unknown"
	}
}

// Entry is the 4-byte descriptor stored for every array element and every
// object key/value.
//
// Its low 28 bits hold either the value's byte length or its cumulative
// end offset from the start of the container's value area; the has-offset
// bit selects which. The encoder picks per entry: offsets give O(1)
// element lookup, lengths compress better, and the decoder handles both
// uniformly.
type Entry uint32

// OffLen returns the raw offset-or-length field. Interpret it with
// HasOff.
func (e Entry) OffLen() int {
	return int(e & EntryOffLenMask)
}

// HasOff reports whether OffLen holds a cumulative end offset from the
// start of the value area rather than a length.
func (e Entry) HasOff() bool {
	return e&EntryHasOff != 0
}

// Type returns the entry's type tag.
func (e Entry) Type() EntryType {
	return EntryType(e & EntryTypeMask)
}

// Validate checks the type tag against the known variants.
//
// Two of the eight tag values are unused by the format; they should never
// occur on well-formed input but are checked defensively.
//
// Returns:
//   - error: errs.ErrBadEntryHeader if the tag is unknown
func (e Entry) Validate() error {
	switch e.Type() {
	case TypeString, TypeNumeric, TypeBoolFalse, TypeBoolTrue, TypeNull, TypeContainer:
		return nil
	default:
		return fmt.Errorf("0x%08x: unknown type tag: %w", uint32(e), errs.ErrBadEntryHeader)
	}
}

// String returns a human-readable description for debugging.
func (e Entry) String() string {
	field := "len"
	if e.HasOff() {
		field = "off"
	}

	return fmt.Sprintf("%s(%s=%d)", e.Type(), field, e.OffLen())
}
