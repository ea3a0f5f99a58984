package section

const (
	// ContainerHeaderSize is the size of a container header word in bytes.
	// Container headers always start on a 4-byte boundary.
	ContainerHeaderSize = 4
	// EntrySize is the size of an entry word in bytes. An array stores one
	// entry per element, an object two per pair (all keys, then all
	// values), contiguously after the header.
	EntrySize = 4

	// Container header layout: 28-bit count plus flag bits.
	CountMask  = 0x0FFFFFFF // mask for the element/pair count (bits 0-27)
	FlagScalar = 0x10000000 // pseudo-array wrapping a single root scalar (bit 28)
	FlagObject = 0x20000000 // container is an object (bit 29)
	FlagArray  = 0x40000000 // container is an array (bit 30)

	// Entry word layout: offset-or-length field, type tag, has-offset bit.
	EntryOffLenMask = 0x0FFFFFFF // mask for the offset-or-length field (bits 0-27)
	EntryTypeMask   = 0x70000000 // mask for the type tag (bits 28-30)
	EntryHasOff     = 0x80000000 // field holds a cumulative end offset, not a length (bit 31)
)

// MaxCount is the largest element/pair count a container header can
// carry in its 28-bit count field.
const MaxCount = CountMask
