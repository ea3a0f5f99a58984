package jsonb

import (
	"github.com/pgbin/jsonb/section"
)

// Test fixtures are assembled word by word from the binary layout rather
// than produced by an encoder: headers, entry tables, then the value
// area, with numeric fields padded and length-prefixed the way the
// server lays them out.

func appendWord(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// entrySpec describes one element (or one key/value half) of a container
// under construction.
type entrySpec struct {
	typ    section.EntryType
	hasOff bool
	// payload renders the value bytes given their absolute position in
	// the document; nil for types that store no bytes.
	payload func(pos int) []byte
}

func strEntry(s string) entrySpec {
	return entrySpec{typ: section.TypeString, payload: func(int) []byte { return []byte(s) }}
}

// strEntryOff is strEntry with the has-offset bit: the entry word stores
// the cumulative end offset instead of the length.
func strEntryOff(s string) entrySpec {
	e := strEntry(s)
	e.hasOff = true

	return e
}

// rawEntry stores arbitrary value bytes under the given type tag.
func rawEntry(typ section.EntryType, raw []byte) entrySpec {
	return entrySpec{typ: typ, payload: func(int) []byte { return raw }}
}

func boolEntry(b bool) entrySpec {
	if b {
		return entrySpec{typ: section.TypeBoolTrue}
	}

	return entrySpec{typ: section.TypeBoolFalse}
}

func nullEntry() entrySpec {
	return entrySpec{typ: section.TypeNull}
}

// numEntry renders a short-format numeric field: alignment padding, the
// 4-byte varlena word, then header and base-10000 digits.
func numEntry(negative bool, weight int, digits ...uint16) entrySpec {
	return entrySpec{typ: section.TypeNumeric, payload: func(pos int) []byte {
		head := uint16(0x8000)
		if negative {
			head |= 0x2000
		}
		head |= uint16(weight) & 0x7F //nolint:gosec

		num := []byte{byte(head), byte(head >> 8)}
		for _, d := range digits {
			num = append(num, byte(d), byte(d>>8))
		}

		return wrapNumeric(pos, num)
	}}
}

// rawNumEntry wraps pre-built numeric payload bytes (e.g. special or
// long headers) in the varlena envelope.
func rawNumEntry(num []byte) entrySpec {
	return entrySpec{typ: section.TypeNumeric, payload: func(pos int) []byte {
		return wrapNumeric(pos, num)
	}}
}

func wrapNumeric(pos int, num []byte) []byte {
	field := make([]byte, pad4(pos))
	field = appendWord(field, uint32(4+len(num))<<2)

	return append(field, num...)
}

// containerEntry nests another container, padded to the 4-byte boundary
// its header must sit on.
func containerEntry(flags uint32, count int, elems ...entrySpec) entrySpec {
	return entrySpec{typ: section.TypeContainer, payload: func(pos int) []byte {
		field := make([]byte, pad4(pos))

		return append(field, buildContainerAt(align4(pos), flags, count, elems)...)
	}}
}

// buildContainerAt renders a container whose header lands at base, which
// must be 4-aligned.
func buildContainerAt(base int, flags uint32, count int, elems []entrySpec) []byte {
	vstart := base + section.ContainerHeaderSize + section.EntrySize*len(elems)

	words := make([]uint32, 0, len(elems))
	var values []byte
	voff := 0
	for _, e := range elems {
		var payload []byte
		if e.payload != nil {
			payload = e.payload(vstart + voff)
		}

		field := len(payload)
		if e.hasOff {
			field = voff + len(payload)
		}
		word := uint32(e.typ) | uint32(field) //nolint:gosec
		if e.hasOff {
			word |= section.EntryHasOff
		}

		words = append(words, word)
		values = append(values, payload...)
		voff += len(payload)
	}

	buf := appendWord(nil, flags|uint32(count)) //nolint:gosec
	for _, w := range words {
		buf = appendWord(buf, w)
	}

	return append(buf, values...)
}

// buildDoc renders a whole document rooted at offset 0.
func buildDoc(flags uint32, count int, elems ...entrySpec) []byte {
	return buildContainerAt(0, flags, count, elems)
}

// scalarDoc wraps a single scalar in the one-element pseudo-array the
// format uses for bare scalar documents.
func scalarDoc(elem entrySpec) []byte {
	return buildDoc(section.FlagArray|section.FlagScalar, 1, elem)
}
