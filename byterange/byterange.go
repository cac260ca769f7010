// Package byterange implements ByteRange, the immutable non-owning view over
// externally owned bytes that is threaded through the codec and the skip
// list's key type in practice (spec.md §1, §4.2).
package byterange

import (
	"bytes"

	"github.com/arenakv/memcore/internal/assert"
)

// ByteRange is a borrowed view over a run of bytes. It never owns its
// backing storage; the caller must ensure that storage outlives every
// ByteRange referencing it (spec.md §3).
//
// The zero value is the empty ByteRange.
type ByteRange struct {
	data []byte
}

// Empty returns the empty ByteRange.
func Empty() ByteRange {
	return ByteRange{}
}

// FromBytes returns a ByteRange borrowing the storage of b. b must not be
// mutated through any other reference while the ByteRange is in use.
func FromBytes(b []byte) ByteRange {
	return ByteRange{data: b}
}

// FromString returns a ByteRange over a fresh copy of s's bytes; it does not
// borrow s's storage. Use FromBytes to borrow an existing byte slice.
func FromString(s string) ByteRange {
	if len(s) == 0 {
		return ByteRange{}
	}
	return ByteRange{data: []byte(s)[:len(s):len(s)]}
}

// FromCString returns a ByteRange over b up to (not including) the first NUL
// byte, mirroring the null-terminated-sequence constructor from spec.md
// §4.2. If there is no NUL byte, the whole slice is used.
func FromCString(b []byte) ByteRange {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return ByteRange{data: b[:i]}
	}
	return ByteRange{data: b}
}

// Data returns the borrowed backing bytes. The caller must not retain the
// result past the lifetime of the storage the ByteRange was built from.
func (r ByteRange) Data() []byte { return r.data }

// Len returns the length in bytes.
func (r ByteRange) Len() int { return len(r.data) }

// Empty reports whether the range is empty.
func (r ByteRange) Empty() bool { return len(r.data) == 0 }

// At returns the i'th byte. i must be < Len(); out of range is a programmer
// error (spec.md §4.2, §7).
func (r ByteRange) At(i int) byte {
	assert.Truef(i < len(r.data), "byterange: At(%d) out of range, len=%d", i, len(r.data))
	return r.data[i]
}

// Owned copies the range into a fresh, independently owned byte slice.
func (r ByteRange) Owned() []byte {
	if len(r.data) == 0 {
		return nil
	}
	out := make([]byte, len(r.data))
	copy(out, r.data)
	return out
}

// OwnedString copies the range into a fresh Go string.
func (r ByteRange) OwnedString() string {
	return string(r.data)
}

// Clear resets the view to empty. It only changes this value, not the
// backing storage.
func (r *ByteRange) Clear() {
	r.data = nil
}

// DropPrefix advances the view past its first k bytes. k must be <= Len();
// violating that is a programmer error (spec.md §4.2, §7).
func (r *ByteRange) DropPrefix(k int) {
	assert.Truef(k <= len(r.data), "byterange: DropPrefix(%d) exceeds len=%d", k, len(r.data))
	r.data = r.data[k:]
}

// Compare performs a lexicographic three-way comparison: negative if r < b,
// zero if equal, positive if r > b. Ties are broken by the shorter range
// sorting first (spec.md §4.2).
func (r ByteRange) Compare(b ByteRange) int {
	return bytes.Compare(r.data, b.data)
}

// StartsWith reports whether x is a prefix of r.
func (r ByteRange) StartsWith(x ByteRange) bool {
	return len(r.data) >= len(x.data) && bytes.Equal(r.data[:len(x.data)], x.data)
}

// Equal reports content equality between r and b.
func (r ByteRange) Equal(b ByteRange) bool {
	return bytes.Equal(r.data, b.data)
}

// String implements fmt.Stringer for debugging and test failure messages.
func (r ByteRange) String() string {
	return string(r.data)
}

// Compare is a standalone comparator matching skiplist.Comparator[ByteRange],
// so a ByteRange-keyed skip list can be built with byterange.Compare
// directly instead of a closure over the method.
func Compare(a, b ByteRange) int {
	return a.Compare(b)
}
