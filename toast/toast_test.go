package toast

import (
	"bytes"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"

	"github.com/pgbin/jsonb/errs"
)

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// shortDatum wraps payload in a 1-byte varlena header.
func shortDatum(payload []byte) []byte {
	total := len(payload) + 1
	return append([]byte{byte(total<<1 | 1)}, payload...)
}

// plainDatum wraps payload in an uncompressed 4-byte varlena header.
func plainDatum(payload []byte) []byte {
	buf := appendU32(nil, uint32(len(payload)+4)<<2)
	return append(buf, payload...)
}

// compressedDatum wraps an already-compressed stream in a 4-byte
// compressed varlena header declaring rawSize and method.
func compressedDatum(stream []byte, rawSize, method int) []byte {
	buf := appendU32(nil, uint32(len(stream)+8)<<2|tag4BComp)
	buf = appendU32(buf, uint32(rawSize)|uint32(method)<<methodShift)

	return append(buf, stream...)
}

func TestDetoast_ShortHeader(t *testing.T) {
	payload, err := Detoast(shortDatum([]byte("hi")))
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), payload)
}

func TestDetoast_ShortHeaderTrailingBytes(t *testing.T) {
	// The datum may sit in a larger buffer; only the declared size counts.
	data := append(shortDatum([]byte("hi")), 0xFF, 0xFF)
	payload, err := Detoast(data)
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), payload)
}

func TestDetoast_PlainHeader(t *testing.T) {
	payload, err := Detoast(plainDatum([]byte("abcdef")))
	require.NoError(t, err)
	require.Equal(t, []byte("abcdef"), payload)
}

func TestDetoast_External(t *testing.T) {
	_, err := Detoast([]byte{0x01, 0x12, 0x00, 0x00})
	require.ErrorIs(t, err, errs.ErrExternalDatum)
}

func TestDetoast_BadInput(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		_, err := Detoast(nil)
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("Short header overruns buffer", func(t *testing.T) {
		_, err := Detoast([]byte{byte(10<<1 | 1), 'x'})
		require.ErrorIs(t, err, errs.ErrBadVarlenaHeader)
	})

	t.Run("Truncated 4-byte header", func(t *testing.T) {
		_, err := Detoast([]byte{0x00, 0x00})
		require.ErrorIs(t, err, errs.ErrBadVarlenaHeader)
	})

	t.Run("4-byte header overruns buffer", func(t *testing.T) {
		data := appendU32(nil, 100<<2)
		_, err := Detoast(append(data, 'x'))
		require.ErrorIs(t, err, errs.ErrBadVarlenaHeader)
	})

	t.Run("Truncated compressed header", func(t *testing.T) {
		_, err := Detoast([]byte{0x02, 0x00, 0x00, 0x00, 0x01})
		require.ErrorIs(t, err, errs.ErrBadVarlenaHeader)
	})
}

func TestDetoast_LZ4(t *testing.T) {
	raw := bytes.Repeat([]byte("jsonb toast "), 40)

	var compressor lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := compressor.CompressBlock(raw, dst)
	require.NoError(t, err)
	require.Positive(t, n, "fixture must actually compress")

	payload, err := Detoast(compressedDatum(dst[:n], len(raw), MethodLZ4))
	require.NoError(t, err)
	require.Equal(t, raw, payload)
}

func TestDetoast_LZ4Corrupt(t *testing.T) {
	raw := bytes.Repeat([]byte("jsonb toast "), 40)

	var compressor lz4.Compressor
	dst := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := compressor.CompressBlock(raw, dst)
	require.NoError(t, err)

	t.Run("Wrong raw size", func(t *testing.T) {
		_, err := Detoast(compressedDatum(dst[:n], len(raw)+1, MethodLZ4))
		require.ErrorIs(t, err, errs.ErrBadCompressedData)
	})

	t.Run("Truncated stream", func(t *testing.T) {
		_, err := Detoast(compressedDatum(dst[:n/2], len(raw), MethodLZ4))
		require.ErrorIs(t, err, errs.ErrBadCompressedData)
	})
}

func TestDetoast_PGLZ(t *testing.T) {
	// Literal 'a' followed by a back-reference of length 11 at offset 1:
	// twelve 'a' bytes. Control byte 0x02 marks item 0 literal, item 1
	// back-reference.
	stream := []byte{0x02, 'a', 0x08, 0x01}
	payload, err := Detoast(compressedDatum(stream, 12, MethodPGLZ))
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{'a'}, 12), payload)
}

func TestDetoast_UnknownMethod(t *testing.T) {
	_, err := Detoast(compressedDatum([]byte{0x00}, 1, 2))
	require.ErrorIs(t, err, errs.ErrUnknownCompressionMethod)
}

func TestPGLZDecompressor(t *testing.T) {
	dec := PGLZDecompressor{}

	t.Run("Literals only", func(t *testing.T) {
		// Two control groups: eight literals, then three more.
		stream := append([]byte{0x00}, []byte("abcdefgh")...)
		stream = append(stream, 0x00)
		stream = append(stream, []byte("ijk")...)

		out, err := dec.Decompress(stream, 11)
		require.NoError(t, err)
		require.Equal(t, []byte("abcdefghijk"), out)
	})

	t.Run("Extended match length", func(t *testing.T) {
		// Length nibble 15 means 18, plus an extension byte of 5: a 23-byte
		// copy at offset 1 after a single literal.
		stream := []byte{0x02, 'z', 0x0F, 0x01, 0x05}
		out, err := dec.Decompress(stream, 24)
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{'z'}, 24), out)
	})

	t.Run("Overlapping copy", func(t *testing.T) {
		// "ab" then a 6-byte copy at offset 2 repeats the pair.
		stream := []byte{0x04, 'a', 'b', 0x03, 0x02}
		out, err := dec.Decompress(stream, 8)
		require.NoError(t, err)
		require.Equal(t, []byte("abababab"), out)
	})

	t.Run("Copy capped at raw size", func(t *testing.T) {
		// The declared raw size ends mid-match; pglz stops exactly there.
		stream := []byte{0x02, 'a', 0x08, 0x01}
		out, err := dec.Decompress(stream, 5)
		require.NoError(t, err)
		require.Equal(t, bytes.Repeat([]byte{'a'}, 5), out)
	})

	t.Run("Zero offset", func(t *testing.T) {
		stream := []byte{0x01, 0x03, 0x00}
		_, err := dec.Decompress(stream, 4)
		require.ErrorIs(t, err, errs.ErrBadCompressedData)
	})

	t.Run("Offset beyond output", func(t *testing.T) {
		stream := []byte{0x02, 'a', 0x03, 0x05}
		_, err := dec.Decompress(stream, 5)
		require.ErrorIs(t, err, errs.ErrBadCompressedData)
	})

	t.Run("Truncated back-reference", func(t *testing.T) {
		stream := []byte{0x01, 0x03}
		_, err := dec.Decompress(stream, 4)
		require.ErrorIs(t, err, errs.ErrBadCompressedData)
	})

	t.Run("Output too short", func(t *testing.T) {
		stream := append([]byte{0x00}, []byte("ab")...)
		_, err := dec.Decompress(stream, 10)
		require.ErrorIs(t, err, errs.ErrBadCompressedData)
	})
}

func TestMethodDecompressor(t *testing.T) {
	dec, err := MethodDecompressor(MethodPGLZ)
	require.NoError(t, err)
	require.IsType(t, PGLZDecompressor{}, dec)

	dec, err = MethodDecompressor(MethodLZ4)
	require.NoError(t, err)
	require.IsType(t, LZ4Decompressor{}, dec)

	_, err = MethodDecompressor(3)
	require.ErrorIs(t, err, errs.ErrUnknownCompressionMethod)
}
