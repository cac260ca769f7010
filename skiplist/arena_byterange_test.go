package skiplist

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenakv/memcore/arena"
	"github.com/arenakv/memcore/byterange"
	"github.com/arenakv/memcore/codec"
)

// TestByteRangeKeyedSkipListBackedByArena drives the full data flow spec.md
// §2 describes end to end: callers build keys via the Codec into bytes owned
// by the Arena, expose them as ByteRanges, and hand those to a
// SkipList[ByteRange] compared with byterange.Compare.
func TestByteRangeKeyedSkipListBackedByArena(t *testing.T) {
	a := arena.New()
	s := New[byterange.ByteRange](byterange.Compare, a)

	words := []string{"delta", "alpha", "golf", "charlie", "echo", "bravo", "foxtrot"}
	var keys []byterange.ByteRange
	for _, w := range words {
		var encoded []byte
		encoded = codec.AppendLengthPrefixed(encoded, byterange.FromString(w))

		dst := a.Allocate(len(encoded))
		copy(dst, encoded)

		var decoded byterange.ByteRange
		framed := byterange.FromBytes(dst)
		require.True(t, codec.ReadLengthPrefixed(&framed, &decoded))

		keys = append(keys, decoded)
	}

	for _, k := range keys {
		s.Insert(k)
	}
	require.EqualValues(t, len(words), s.Count())

	for _, k := range keys {
		require.True(t, s.Contains(k), "Contains(%q)", k.OwnedString())
	}
	require.False(t, s.Contains(byterange.FromString("zulu")))

	want := append([]string(nil), words...)
	sort.Strings(want)

	var got []string
	it := s.NewIterator()
	for it.SeekFirst(); it.Valid(); it.Next() {
		got = append(got, it.Key().OwnedString())
	}
	require.Equal(t, want, got)

	require.Greater(t, s.Arena().MemoryUsage(), int64(0), "the keys' backing bytes must have come from the arena")
}

// TestByteRangeKeySeekUsesArenaOwnedBytes exercises Seek against keys whose
// bytes live entirely in Arena-owned slabs, including a fixed-width integer
// key encoded via codec.EncodeFixed32 rather than a length-prefixed string.
func TestByteRangeKeySeekUsesArenaOwnedBytes(t *testing.T) {
	a := arena.New()
	s := New[byterange.ByteRange](byterange.Compare, a)

	for _, n := range []uint32{30, 10, 20} {
		buf := a.Allocate(4)
		codec.EncodeFixed32(buf, n)
		s.Insert(byterange.FromBytes(buf))
	}

	target := a.Allocate(4)
	codec.EncodeFixed32(target, 15)

	it := s.NewIterator()
	it.Seek(byterange.FromBytes(target))
	require.True(t, it.Valid())
	require.Equal(t, uint32(20), codec.DecodeFixed32(it.Key().Data()))

	var gotValues []uint32
	for it.SeekFirst(); it.Valid(); it.Next() {
		gotValues = append(gotValues, codec.DecodeFixed32(it.Key().Data()))
	}
	require.Equal(t, []uint32{10, 20, 30}, gotValues)
}
