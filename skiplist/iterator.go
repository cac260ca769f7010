package skiplist

import "github.com/arenakv/memcore/internal/assert"

// Iterator is a cursor over a SkipList's level-0 chain (spec.md §4.4.5). An
// Iterator borrows its SkipList and may run concurrently with the list's
// single writer and with any other Iterator, without locking.
//
// The zero value is not usable; construct with SkipList.NewIterator.
type Iterator[K any] struct {
	sl  *SkipList[K]
	cur *node[K]
}

// NewIterator returns an Iterator positioned before the first key.
func (s *SkipList[K]) NewIterator() *Iterator[K] {
	return &Iterator[K]{sl: s}
}

// Valid reports whether the cursor is on a real entry.
func (it *Iterator[K]) Valid() bool {
	return it.cur != nil && it.cur != it.sl.head
}

// Key returns the key at the cursor. Valid() must be true.
func (it *Iterator[K]) Key() K {
	assert.True(it.Valid(), "skiplist: Iterator.Key called on an invalid cursor")
	return it.cur.key
}

// Next advances to the level-0 successor. Valid() must be true beforehand.
func (it *Iterator[K]) Next() {
	assert.True(it.Valid(), "skiplist: Iterator.Next called on an invalid cursor")
	it.cur = it.cur.next(0)
}

// Prev moves to the last entry strictly before the current key. Valid() must
// be true beforehand; this is an O(log N)-expected traversal from head, not
// an O(1) back-pointer hop — spec.md §9 explicitly forbids adding back
// pointers, since they would break the single-writer invariant.
func (it *Iterator[K]) Prev() {
	assert.True(it.Valid(), "skiplist: Iterator.Prev called on an invalid cursor")
	prev := it.sl.findLT(it.cur.key)
	if prev == it.sl.head {
		it.cur = nil
		return
	}
	it.cur = prev
}

// Seek positions the cursor at the least key >= target, or invalid if none.
func (it *Iterator[K]) Seek(target K) {
	it.cur = it.sl.findGE(target, nil)
}

// SeekFirst positions the cursor at the least key in the list.
func (it *Iterator[K]) SeekFirst() {
	it.cur = it.sl.head.next(0)
}

// SeekLast positions the cursor at the greatest key in the list, or invalid
// if the list is empty.
func (it *Iterator[K]) SeekLast() {
	last := it.sl.findLast()
	if last == it.sl.head {
		it.cur = nil
		return
	}
	it.cur = last
}
