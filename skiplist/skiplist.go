// Package skiplist implements the arena-backed, concurrently-readable
// ordered index described by spec.md §4.4: a probabilistic multi-level
// linked structure with a single external writer and arbitrarily many
// lock-free concurrent readers.
//
// Deletion, concurrent writers, rebalancing and cross-list iteration are
// explicitly out of scope (spec.md §1 Non-goals); callers that need them
// belong to the surrounding LSM engine, not here.
package skiplist

import (
	"sync/atomic"

	"github.com/arenakv/memcore/arena"
	"github.com/arenakv/memcore/internal/assert"
	"github.com/arenakv/memcore/internal/xlog"
)

const (
	// MaxHeight is Hmax from spec.md §3.
	MaxHeight = 12
	// BranchingFactor is the modulus random_height samples against
	// (spec.md §4.4.1): P(height = h) = (1/4)^(h-1) * 3/4.
	BranchingFactor = 4
)

// Comparator is a strict total order over K. It must return a negative
// number if a < b, zero if a == b, and a positive number if a > b.
type Comparator[K any] func(a, b K) int

// SkipList is an ordered, concurrently-readable index keyed by K. At most
// one writer may call Insert at a time; that writer must be serialized
// externally (spec.md §5). Any number of goroutines may call Contains or run
// an Iterator concurrently with that single writer, without any locking.
//
// A SkipList is not safe to copy; always use a pointer.
type SkipList[K any] struct {
	head      *node[K]
	height    atomic.Int32 // Hcur
	cmp       Comparator[K]
	arena     *arena.Arena
	rnd       HeightSource
	maxHeight int
	branching int
	count     atomic.Int64
}

// Option configures a SkipList at construction time.
type Option[K any] func(*SkipList[K])

// WithHeightSource overrides the injected height-sampling primitive, for
// reproducible tests (spec.md §9).
func WithHeightSource[K any](src HeightSource) Option[K] {
	return func(s *SkipList[K]) { s.rnd = src }
}

// WithMaxHeight overrides Hmax (default MaxHeight).
func WithMaxHeight[K any](h int) Option[K] {
	return func(s *SkipList[K]) { s.maxHeight = h }
}

// WithBranchingFactor overrides the height-sampling modulus (default
// BranchingFactor).
func WithBranchingFactor[K any](b int) Option[K] {
	return func(s *SkipList[K]) { s.branching = b }
}

// New constructs an empty SkipList keyed by K, comparing keys with cmp and
// borrowing a (arena) for any caller-side key storage. The Arena is not
// required to back the SkipList's own node headers — see DESIGN.md's "Node
// allocation" entry for why — but it is the Arena the caller is expected to
// build ByteRange (or other byte-backed) keys from before calling Insert, in
// the data flow spec.md §2 describes: "callers build keys... via the Codec
// into bytes owned by the Arena... then invoke SkipList.insert(key)".
func New[K any](cmp Comparator[K], a *arena.Arena, opts ...Option[K]) *SkipList[K] {
	assert.True(cmp != nil, "skiplist: comparator must not be nil")
	s := &SkipList[K]{
		cmp:       cmp,
		arena:     a,
		maxHeight: MaxHeight,
		branching: BranchingFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	assert.Truef(s.maxHeight >= 1 && s.maxHeight <= MaxHeight,
		"skiplist: WithMaxHeight(%d) must be in [1, %d]", s.maxHeight, MaxHeight)
	if s.rnd == nil {
		s.rnd = defaultHeightSource()
	}
	s.head = newNode(*new(K), s.maxHeight)
	s.height.Store(1)
	return s
}

// Arena returns the Arena this SkipList was constructed with.
func (s *SkipList[K]) Arena() *arena.Arena {
	return s.arena
}

// Height returns the current list height Hcur.
func (s *SkipList[K]) Height() int {
	return int(s.height.Load())
}

// Count returns the number of nodes inserted so far.
func (s *SkipList[K]) Count() int64 {
	return s.count.Load()
}

// randomHeight draws a node height per spec.md §4.4.1.
func (s *SkipList[K]) randomHeight() int {
	h := 1
	for h < s.maxHeight && s.rnd.Intn(s.branching) == 0 {
		h++
	}
	return h
}

// findGE implements spec.md §4.4.2's find_ge. It returns the node with the
// smallest key >= key, or nil if none exists. If prev is non-nil, it must
// have length >= the list's current height; findGE fills prev[level] with
// the last node visited at that level before dropping down.
func (s *SkipList[K]) findGE(key K, prev []*node[K]) *node[K] {
	x := s.head
	level := int(s.height.Load()) - 1
	for {
		next := x.next(level)
		if next != nil && s.cmp(next.key, key) < 0 {
			x = next
			continue
		}
		if prev != nil {
			prev[level] = x
		}
		if level == 0 {
			return next
		}
		level--
	}
}

// findLT implements spec.md §4.4.2's find_lt: the last node (possibly head)
// whose key is strictly less than key.
func (s *SkipList[K]) findLT(key K) *node[K] {
	x := s.head
	level := int(s.height.Load()) - 1
	for {
		next := x.next(level)
		if next != nil && s.cmp(next.key, key) < 0 {
			x = next
			continue
		}
		if level == 0 {
			return x
		}
		level--
	}
}

// findLast implements spec.md §4.4.2's find_last: the last node (possibly
// head) reachable by following forward pointers to the end.
func (s *SkipList[K]) findLast() *node[K] {
	x := s.head
	level := int(s.height.Load()) - 1
	for {
		next := x.next(level)
		if next != nil {
			x = next
			continue
		}
		if level == 0 {
			return x
		}
		level--
	}
}

// Insert adds key to the list. The caller must guarantee no comparator-equal
// key already exists (spec.md §4.4.3's precondition); violating that is a
// programmer error and panics rather than silently corrupting the list.
//
// Insert must not be called concurrently with any other Insert on the same
// SkipList — that serialization is the caller's responsibility, not this
// package's (spec.md §5). It may run concurrently with any number of
// Contains calls and Iterators.
func (s *SkipList[K]) Insert(key K) {
	var prevBuf [MaxHeight]*node[K]
	curHeight := int(s.height.Load())
	prev := prevBuf[:curHeight]
	next := s.findGE(key, prev)
	assert.Truef(next == nil || s.cmp(next.key, key) != 0,
		"skiplist: Insert called with a key that already exists")

	h := s.randomHeight()
	if h > curHeight {
		prev = prevBuf[:h]
		for i := curHeight; i < h; i++ {
			prev[i] = s.head
		}
		s.height.Store(int32(h))
		xlog.Logger.Debug().Int("height", h).Msg("skiplist: height grew")
	}

	nd := newNode(key, h)
	for i := 0; i < h; i++ {
		nd.setNext(i, prev[i].next(i))
		prev[i].setNext(i, nd)
	}
	s.count.Add(1)
}

// Contains reports whether key is present.
func (s *SkipList[K]) Contains(key K) bool {
	next := s.findGE(key, nil)
	return next != nil && s.cmp(next.key, key) == 0
}
