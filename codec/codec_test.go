package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenakv/memcore/byterange"
)

func TestFixed32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 300, 1 << 31, 0xFFFFFFFF} {
		buf := make([]byte, 4)
		EncodeFixed32(buf, v)
		require.Equal(t, v, DecodeFixed32(buf))
	}
}

func TestFixed64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 300, 1 << 63, 0xFFFFFFFFFFFFFFFF} {
		buf := make([]byte, 8)
		EncodeFixed64(buf, v)
		require.Equal(t, v, DecodeFixed64(buf))
	}
}

func TestAppendFixed(t *testing.T) {
	var dst []byte
	dst = AppendFixed32(dst, 1)
	dst = AppendFixed64(dst, 2)
	require.Len(t, dst, 12)
	require.Equal(t, uint32(1), DecodeFixed32(dst[:4]))
	require.Equal(t, uint64(2), DecodeFixed64(dst[4:]))
}

func TestVarint32Scenario(t *testing.T) {
	// spec.md §8 scenario 2.
	buf := make([]byte, 5)
	n := EncodeVarint32(buf, 300)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{0xAC, 0x02}, buf[:n])

	var v uint32
	consumed, ok := DecodeVarint32(buf[:n], &v)
	require.True(t, ok)
	require.Equal(t, n, consumed)
	require.Equal(t, uint32(300), v)

	n = EncodeVarint32(buf, 127)
	require.Equal(t, []byte{0x7F}, buf[:n])

	n = EncodeVarint32(buf, 0)
	require.Equal(t, []byte{0x00}, buf[:n])
}

func TestVarint32RoundTripBoundaries(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 16383, 16384, 2097151, 2097152,
		268435455, 268435456, 0x7FFFFFFF, 0xFFFFFFFF}
	for _, v := range values {
		buf := make([]byte, 5)
		n := EncodeVarint32(buf, v)

		var got uint32
		decodedLen, ok := DecodeVarint32(buf[:n], &got)
		require.True(t, ok, "decode of %d failed", v)
		require.Equal(t, n, decodedLen)
		require.Equal(t, v, got)
	}
}

func TestVarint64RoundTripBoundaries(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 1 << 20, 1 << 40, 1 << 62, 0xFFFFFFFFFFFFFFFF}
	for _, v := range values {
		buf := make([]byte, 10)
		n := EncodeVarint64(buf, v)

		var got uint64
		decodedLen, ok := DecodeVarint64(buf[:n], &got)
		require.True(t, ok, "decode of %d failed", v)
		require.Equal(t, n, decodedLen)
		require.Equal(t, v, got)
	}
}

func TestVarintLengthMatchesEncoder(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 1 << 20, 1 << 40, 1 << 62, 0xFFFFFFFFFFFFFFFF} {
		buf := make([]byte, 10)
		n := EncodeVarint64(buf, v)
		require.Equal(t, n, VarintLength(v))
	}
}

func TestDecodeVarint32RejectsSixthContinuationByte(t *testing.T) {
	// Five continuation bytes followed by a terminator is one byte too many
	// for a 32-bit varint.
	p := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	var v uint32
	_, ok := DecodeVarint32(p, &v)
	require.False(t, ok)
}

func TestDecodeVarint64RejectsEleventhContinuationByte(t *testing.T) {
	p := make([]byte, 11)
	for i := 0; i < 10; i++ {
		p[i] = 0x80
	}
	p[10] = 0x01
	var v uint64
	_, ok := DecodeVarint64(p, &v)
	require.False(t, ok)
}

func TestDecodeVarintPastLimitFails(t *testing.T) {
	// A truncated varint with the continuation bit set and no terminator
	// within the supplied slice must fail without mutating out.
	p := []byte{0x80, 0x80}
	var v uint32 = 42
	_, ok := DecodeVarint32(p, &v)
	require.False(t, ok)
	require.Equal(t, uint32(42), v, "a failed decode must not mutate out")
}

func TestVarint32FifthByteHighNibbleMaskedTo32Bits(t *testing.T) {
	// The fifth byte terminates (its continuation bit is clear) but its
	// upper payload bits land past bit 31 once shifted; spec.md §4.3 says
	// the decoder still accepts this and masks the result to 32 bits rather
	// than rejecting it.
	p := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}
	var want uint64
	for i, b := range p {
		want |= uint64(b&0x7f) << (7 * uint(i))
	}

	var v uint32
	n, ok := DecodeVarint32(p, &v)
	require.True(t, ok)
	require.Equal(t, 5, n)
	require.Equal(t, uint32(want), v)
}

func TestLengthPrefixedScenario(t *testing.T) {
	// spec.md §8 scenario 3.
	r := byterange.FromString("abc")
	dst := AppendLengthPrefixed(nil, r)
	require.Equal(t, []byte{0x03, 'a', 'b', 'c'}, dst)

	input := byterange.FromBytes(dst)
	var out byterange.ByteRange
	ok := ReadLengthPrefixed(&input, &out)
	require.True(t, ok)
	require.True(t, out.Equal(r))
	require.Equal(t, 0, input.Len())
}

func TestLengthPrefixedLeavesInputUntouchedOnFailure(t *testing.T) {
	// Length says 10 bytes follow, but only 2 are present.
	truncated := byterange.FromBytes([]byte{10, 'a', 'b'})
	before := truncated
	var out byterange.ByteRange
	ok := ReadLengthPrefixed(&truncated, &out)
	require.False(t, ok)
	require.True(t, truncated.Equal(before))
}

func TestLengthPrefixedMultipleEntries(t *testing.T) {
	var dst []byte
	dst = AppendLengthPrefixed(dst, byterange.FromString("one"))
	dst = AppendLengthPrefixed(dst, byterange.FromString("two"))
	dst = AppendLengthPrefixed(dst, byterange.FromString(""))

	input := byterange.FromBytes(dst)
	var got []string
	for input.Len() > 0 {
		var out byterange.ByteRange
		require.True(t, ReadLengthPrefixed(&input, &out))
		got = append(got, out.OwnedString())
	}
	require.Equal(t, []string{"one", "two", ""}, got)
}
