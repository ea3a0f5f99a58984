// Package endian provides the byte-order engine used by the jsonb
// decoder.
//
// The jsonb on-disk format carries no byte-order indicator; the words in
// a container are written in the server machine's native order. This
// implementation standardizes on little-endian and treats big-endian
// source documents as out of scope. The big-endian engine is kept so the
// limitation stays visible at the type level, and Native reports the
// host order for callers that want to detect the mismatch themselves.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single interface. Both binary.LittleEndian and
// binary.BigEndian satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little-endian engine, the standard for jsonb reads.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine. No decoding path uses it; it exists
// for documentation and for callers probing foreign documents.
func Big() Engine {
	return binary.BigEndian
}

// Native reports the byte order of the host machine.
func Native() binary.ByteOrder {
	// 0x0100 is 256. A little-endian host stores the LSB (0x00) first,
	// a big-endian host the MSB (0x01).
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittle reports whether the host machine is little-endian, i.e.
// whether jsonb documents produced by a server on this machine decode
// without byte swapping.
func IsNativeLittle() bool {
	return Native() == binary.LittleEndian
}
