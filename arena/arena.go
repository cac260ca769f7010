// Package arena implements the bump allocator that backs caller-built key
// storage for the skip list; the skip list's own nodes are ordinary Go
// allocations, not arena regions. It owns a growing list of slabs and hands out raw
// byte regions from them; nothing is ever freed individually — the whole
// arena is released as one unit when it is dropped.
//
// allocate* is only ever called under the same external serialization as the
// skip list's Insert (spec.md §5: "allocate* mutators are called only under
// the same external serialization as insert"), so only MemoryUsage needs to
// tolerate a concurrent caller.
package arena

import (
	"sync/atomic"
	"unsafe"

	"github.com/arenakv/memcore/internal/assert"
	"github.com/arenakv/memcore/internal/xlog"
)

const (
	// BlockSize is the size of an ordinary slab.
	BlockSize = 4096
	// LargeObjectThreshold is the largest request still served by rotating a
	// fresh ordinary slab; anything larger gets a dedicated slab.
	LargeObjectThreshold = BlockSize / 4
	// bookkeepingOverhead is the fixed per-slab constant K added to the usage
	// counter on top of the slab's own capacity (spec.md §4.1, §9 "Open
	// question": the exact value is a convention, not a correctness
	// property). One pointer's worth of bytes, matching the overhead a slab
	// header would cost in the systems-language original.
	bookkeepingOverhead = int64(unsafe.Sizeof(uintptr(0)))
	// defaultAlignment is ALIGNMENT = max(pointer_size, 8) from spec.md §6.
	defaultAlignment = 8
)

// Arena is a bump allocator over a list of owned slabs. Regions allocated
// from an Arena live for the Arena's entire lifetime; there is no
// way to free an individual region. The zero value is not usable; construct
// with New.
type Arena struct {
	cur   []byte // current slab; the bump pointer is cur[off:]
	off   int
	slabs [][]byte // every slab ever committed, in commit order (S)
	usage atomic.Int64

	blockSize     int
	largeObjectAt int
	alignment     uintptr
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithBlockSize overrides the ordinary slab size (default arena.BlockSize).
func WithBlockSize(n int) Option {
	return func(a *Arena) { a.blockSize = n }
}

// WithLargeObjectThreshold overrides the size above which a request gets a
// dedicated slab instead of rotating an ordinary one.
func WithLargeObjectThreshold(n int) Option {
	return func(a *Arena) { a.largeObjectAt = n }
}

// WithAlignment overrides the alignment used by AllocateAligned. It must be
// a power of two, checked at construction.
func WithAlignment(n int) Option {
	return func(a *Arena) { a.alignment = uintptr(n) }
}

// New returns an empty Arena. It commits no slabs until the first Allocate.
func New(opts ...Option) *Arena {
	a := &Arena{
		blockSize:     BlockSize,
		largeObjectAt: LargeObjectThreshold,
		alignment:     defaultAlignment,
	}
	for _, opt := range opts {
		opt(a)
	}
	assert.Truef(a.alignment > 0 && a.alignment&(a.alignment-1) == 0,
		"arena: alignment %d is not a power of two", a.alignment)
	return a
}

func (a *Arena) remaining() int { return len(a.cur) - a.off }

// Allocate returns a raw byte region of exactly n bytes, unaligned. n must be
// positive; allocate(0) is a programmer error (spec.md §7).
func (a *Arena) Allocate(n int) []byte {
	assert.Truef(n > 0, "arena: allocate requires n > 0, got %d", n)
	if n <= a.remaining() {
		b := a.cur[a.off : a.off+n]
		a.off += n
		return b
	}
	return a.allocateFallback(n)
}

// AllocateAligned returns a byte region of exactly n bytes, aligned to the
// arena's configured alignment (default max(pointer size, 8)).
func (a *Arena) AllocateAligned(n int) []byte {
	assert.Truef(n > 0, "arena: allocate_aligned requires n > 0, got %d", n)
	if a.remaining() > 0 {
		base := uintptr(unsafe.Pointer(&a.cur[a.off]))
		pad := int(alignUp(base, a.alignment) - base)
		if pad+n <= a.remaining() {
			start := a.off + pad
			b := a.cur[start : start+n]
			a.off = start + n
			return b
		}
	}
	// Regions obtained directly from the host allocator (make([]byte, n))
	// are assumed to satisfy the alignment, per spec.md §4.1.
	return a.allocateFallback(n)
}

func alignUp(p, align uintptr) uintptr {
	return (p + align - 1) &^ (align - 1)
}

// allocateFallback implements spec.md §4.1's "Fallback" branch: requests
// larger than the large-object threshold get a dedicated slab that does not
// disturb the bump pointer; smaller ones rotate in a fresh ordinary slab.
func (a *Arena) allocateFallback(n int) []byte {
	if n > a.largeObjectAt {
		return a.newSlab(n)
	}
	a.cur = a.newSlab(a.blockSize)
	a.off = 0
	b := a.cur[a.off : a.off+n]
	a.off += n
	return b
}

func (a *Arena) newSlab(size int) []byte {
	slab := make([]byte, size)
	a.slabs = append(a.slabs, slab)
	a.usage.Add(int64(size) + bookkeepingOverhead)
	xlog.Logger.Debug().Int("size", size).Int("slab_count", len(a.slabs)).Msg("arena: committed slab")
	return slab
}

// MemoryUsage returns a non-decreasing approximation of bytes committed
// across every slab this Arena has ever allocated. Safe to call concurrently
// with an Allocate/AllocateAligned running under external serialization.
func (a *Arena) MemoryUsage() int64 {
	return a.usage.Load()
}

// SlabCount returns the number of slabs committed so far. Exposed for
// testing and for the metrics package; not part of the language-independent
// contract.
func (a *Arena) SlabCount() int {
	return len(a.slabs)
}

// Release drops the Arena's references to its slabs. There is no way to free
// an individual region — this is the "destroyed as a single unit" step from
// spec.md §3, expressed in a garbage-collected host as simply letting every
// slab become unreachable together.
func (a *Arena) Release() {
	a.cur = nil
	a.slabs = nil
}
