package jsonb

import (
	"fmt"

	"github.com/pgbin/jsonb/errs"
	"github.com/pgbin/jsonb/internal/buffer"
	"github.com/pgbin/jsonb/numeric"
	"github.com/pgbin/jsonb/section"
)

// decoder walks a single document. It holds no state beyond the buffer
// view and the depth limit; a fresh one is built per decode call.
type decoder struct {
	buf      *buffer.Reader
	maxDepth int
}

// align4 rounds pos up to the next 4-byte boundary. Container headers are
// always aligned; the surrounding value position may not be.
func align4(pos int) int {
	return (pos + 3) &^ 3
}

// pad4 returns the number of padding bytes between pos and the next
// 4-byte boundary.
func pad4(pos int) int {
	return align4(pos) - pos
}

// root decodes the document root at offset 0.
//
// The root is always a container. A bare scalar document is stored as a
// one-element array with the scalar flag set, and decodes to the element
// itself, not the wrapping array.
func (d *decoder) root() (Value, error) {
	raw, err := d.buf.Uint32(0)
	if err != nil {
		return Value{}, err
	}

	header := section.ContainerHeader(raw)
	if err := header.Validate(); err != nil {
		return Value{}, fmt.Errorf("root header 0x%08x: %w", raw, errs.ErrBadRootHeader)
	}

	if header.IsObject() {
		return d.object(header, 0, 1)
	}

	arr, err := d.array(header, 0, 1)
	if err != nil {
		return Value{}, err
	}
	if !header.IsScalar() {
		return arr, nil
	}
	if arr.Len() != 1 {
		return Value{}, fmt.Errorf("scalar root with %d elements: %w", arr.Len(), errs.ErrBadRootHeader)
	}

	return arr.items[0], nil
}

// container decodes a nested container starting at or after pos.
func (d *decoder) container(pos, depth int) (Value, error) {
	if depth > d.maxDepth {
		return Value{}, fmt.Errorf("nesting depth %d: %w", depth, errs.ErrMaxDepthExceeded)
	}

	pos = align4(pos)
	raw, err := d.buf.Uint32(pos)
	if err != nil {
		return Value{}, err
	}

	header := section.ContainerHeader(raw)
	if err := header.Validate(); err != nil {
		return Value{}, fmt.Errorf("at offset %d: %w", pos, err)
	}

	if header.IsObject() {
		return d.object(header, pos, depth)
	}

	return d.array(header, pos, depth)
}

// array decodes an array container whose header sits at pos.
func (d *decoder) array(header section.ContainerHeader, pos, depth int) (Value, error) {
	count := header.Count()
	if count == 0 {
		return Value{kind: KindArray, items: []Value{}}, nil
	}

	items, err := d.walkEntries(pos, count, depth)
	if err != nil {
		return Value{}, err
	}

	return Value{kind: KindArray, items: items}, nil
}

// object decodes an object container whose header sits at pos.
//
// An object stores 2*count entries: all keys first, then all values,
// paired positionally. Keys land on disk sorted by length then bytes,
// and the decoded member order preserves that.
func (d *decoder) object(header section.ContainerHeader, pos, depth int) (Value, error) {
	count := header.Count()
	if count == 0 {
		return Value{kind: KindObject, members: []Member{}}, nil
	}

	vals, err := d.walkEntries(pos, 2*count, depth)
	if err != nil {
		return Value{}, err
	}

	members := make([]Member, count)
	for i := 0; i < count; i++ {
		key := vals[i]
		if key.kind != KindString {
			return Value{}, fmt.Errorf("object key %d is %s, not string: %w",
				i, key.kind, errs.ErrBadEntryHeader)
		}
		members[i] = Member{Key: key.str, Value: vals[count+i]}
	}

	return Value{kind: KindObject, members: members}, nil
}

// walkEntries decodes n entries of the container headed at pos.
//
// The entry table sits right after the header and the value area right
// after the table. Each entry's field is either the value's length or
// its cumulative end offset from the value area start (has-offset bit):
// the running offset voff converts between the two, so the walk handles
// both uniformly.
func (d *decoder) walkEntries(pos, n, depth int) ([]Value, error) {
	entryPos := pos + section.ContainerHeaderSize
	vstart := entryPos + n*section.EntrySize

	// Reject a lying count before allocating for it.
	if _, err := d.buf.Slice(entryPos, n*section.EntrySize); err != nil {
		return nil, fmt.Errorf("entry table of container at %d: %w", pos, err)
	}

	vals := make([]Value, 0, n)
	voff := 0
	for i := 0; i < n; i++ {
		raw, err := d.buf.Uint32(entryPos + i*section.EntrySize)
		if err != nil {
			return nil, err
		}

		entry := section.Entry(raw)
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d of container at %d: %w", i, pos, err)
		}

		length := entry.OffLen()
		if entry.HasOff() {
			length -= voff
			if length < 0 {
				return nil, fmt.Errorf("entry %d of container at %d: end offset %d before current offset %d: %w",
					i, pos, entry.OffLen(), voff, errs.ErrBadEntryHeader)
			}
		}

		val, err := d.entryValue(entry, vstart+voff, length, depth)
		if err != nil {
			return nil, err
		}

		vals = append(vals, val)
		voff += length
	}

	return vals, nil
}

// entryValue decodes the value described by entry, spanning
// [pos, pos+length) of the buffer.
func (d *decoder) entryValue(entry section.Entry, pos, length, depth int) (Value, error) {
	switch entry.Type() {
	case section.TypeString:
		s, err := d.buf.String(pos, length)
		if err != nil {
			return Value{}, err
		}

		return Value{kind: KindString, str: s}, nil
	case section.TypeNumeric:
		return d.numericValue(pos, length)
	case section.TypeContainer:
		// Containers are self-describing; length is implied by their own
		// header and count.
		return d.container(pos, depth+1)
	case section.TypeNull:
		return Value{kind: KindNull}, nil
	case section.TypeBoolTrue:
		return Value{kind: KindBool, boolVal: true}, nil
	case section.TypeBoolFalse:
		return Value{kind: KindBool, boolVal: false}, nil
	default:
		return Value{}, fmt.Errorf("entry 0x%08x: %w", uint32(entry), errs.ErrBadEntryHeader)
	}
}

// numericValue decodes a numeric field. The field starts with padding up
// to the next 4-byte boundary and a 4-byte varlena length word; the
// packed numeric follows, filling the rest of the range.
func (d *decoder) numericValue(pos, length int) (Value, error) {
	skip := pad4(pos) + 4
	if length < skip {
		return Value{}, fmt.Errorf("numeric field of %d bytes at %d cannot hold its %d-byte varlena header: %w",
			length, pos, skip, errs.ErrOutOfBounds)
	}

	raw, err := d.buf.Slice(pos+skip, length-skip)
	if err != nil {
		return Value{}, err
	}

	n, err := numeric.Decode(raw)
	if err != nil {
		return Value{}, fmt.Errorf("numeric field at %d: %w", pos, err)
	}

	return Value{kind: KindNumber, num: n}, nil
}
