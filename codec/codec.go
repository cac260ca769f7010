// Package codec implements the fixed-width and varint (unsigned LEB128)
// encodings used wherever byte keys and values cross a persistence boundary,
// plus the length-prefixed ByteRange framing built on top of them
// (spec.md §4.3). The encodings are bit-exact with LevelDB's coding.cc,
// which is where this package's algorithms are grounded.
package codec

import (
	"encoding/binary"

	"github.com/arenakv/memcore/byterange"
)

const (
	// maxVarint32Bytes is the most bytes a varint32 decoder will ever
	// consume before giving up.
	maxVarint32Bytes = 5
	// maxVarint64Bytes is the most bytes a varint64 decoder will ever
	// consume before giving up.
	maxVarint64Bytes = 10
)

// EncodeFixed32 writes v as 4 little-endian bytes into buf, which must have
// length >= 4.
func EncodeFixed32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// DecodeFixed32 reads 4 little-endian bytes from buf, which must have
// length >= 4.
func DecodeFixed32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// EncodeFixed64 writes v as 8 little-endian bytes into buf, which must have
// length >= 8.
func EncodeFixed64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// DecodeFixed64 reads 8 little-endian bytes from buf, which must have
// length >= 8.
func DecodeFixed64(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

// AppendFixed32 appends the 4-byte little-endian encoding of v to dst.
func AppendFixed32(dst []byte, v uint32) []byte {
	var buf [4]byte
	EncodeFixed32(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendFixed64 appends the 8-byte little-endian encoding of v to dst.
func AppendFixed64(dst []byte, v uint64) []byte {
	var buf [8]byte
	EncodeFixed64(buf[:], v)
	return append(dst, buf[:]...)
}

// EncodeVarint32 writes v into buf as 1-5 bytes of unsigned LEB128 and
// returns the number of bytes written. buf must have length >= 5.
func EncodeVarint32(buf []byte, v uint32) int {
	return encodeVarint(buf, uint64(v))
}

// EncodeVarint64 writes v into buf as 1-10 bytes of unsigned LEB128 and
// returns the number of bytes written. buf must have length >= 10.
func EncodeVarint64(buf []byte, v uint64) int {
	return encodeVarint(buf, v)
}

func encodeVarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// VarintLength returns the number of bytes EncodeVarint64 would write for v.
func VarintLength(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendVarint32 appends the LEB128 encoding of v to dst.
func AppendVarint32(dst []byte, v uint32) []byte {
	var buf [maxVarint32Bytes]byte
	n := EncodeVarint32(buf[:], v)
	return append(dst, buf[:n]...)
}

// AppendVarint64 appends the LEB128 encoding of v to dst.
func AppendVarint64(dst []byte, v uint64) []byte {
	var buf [maxVarint64Bytes]byte
	n := EncodeVarint64(buf[:], v)
	return append(dst, buf[:n]...)
}

// DecodeVarint32 decodes an unsigned LEB128 varint from the front of p,
// writing the result to *out and returning the number of bytes consumed. It
// returns ok=false, leaving *out untouched, if p contains no terminating
// byte (high bit 0) within the first 5 bytes, or p is exhausted first. A
// fifth byte whose upper four bits are set is still accepted and the result
// is masked to 32 bits, matching what the encoder itself can produce for
// values that fit in 32 bits.
func DecodeVarint32(p []byte, out *uint32) (n int, ok bool) {
	var v64 uint64
	n, ok = decodeVarint(p, maxVarint32Bytes, &v64)
	if !ok {
		return 0, false
	}
	*out = uint32(v64)
	return n, true
}

// DecodeVarint64 decodes an unsigned LEB128 varint from the front of p,
// writing the result to *out and returning the number of bytes consumed. It
// returns ok=false, leaving *out untouched, if p contains no terminating
// byte within the first 10 bytes, or p is exhausted first.
func DecodeVarint64(p []byte, out *uint64) (n int, ok bool) {
	return decodeVarint(p, maxVarint64Bytes, out)
}

func decodeVarint(p []byte, maxBytes int, out *uint64) (n int, ok bool) {
	var result uint64
	limit := len(p)
	if limit > maxBytes {
		limit = maxBytes
	}
	for i := 0; i < limit; i++ {
		b := p[i]
		result |= uint64(b&0x7f) << (7 * uint(i))
		if b&0x80 == 0 {
			*out = result
			return i + 1, true
		}
	}
	return 0, false
}

// AppendLengthPrefixed appends varint32(v.Len()) followed by v's bytes to
// dst (spec.md §4.3).
func AppendLengthPrefixed(dst []byte, v byterange.ByteRange) []byte {
	dst = AppendVarint32(dst, uint32(v.Len()))
	return append(dst, v.Data()...)
}

// ReadLengthPrefixed reads a varint32 length L from the front of *input,
// verifies len(*input) >= L after the length prefix, sets *out to the first
// L bytes that follow, and advances *input past them. On any failure
// (truncated length, or fewer than L bytes remaining) it returns false and
// leaves *input unchanged.
func ReadLengthPrefixed(input *byterange.ByteRange, out *byterange.ByteRange) bool {
	data := input.Data()
	var length uint32
	n, ok := DecodeVarint32(data, &length)
	if !ok {
		return false
	}
	rest := data[n:]
	if uint32(len(rest)) < length {
		return false
	}
	*out = byterange.FromBytes(rest[:length])
	*input = byterange.FromBytes(rest[length:])
	return true
}
