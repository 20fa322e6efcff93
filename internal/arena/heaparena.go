// Package arena implements the HeapArena: a user-space general-purpose
// allocator built on top of a page supplier. This file holds the public
// façade (Allocate/Free/Realloc/Release/Dump) that orchestrates the page
// list, the address-order list, and the red-black free-size index.
package arena

import (
	"hash/maphash"

	"github.com/kvassay/heaparena/internal/pagesupplier"
	"github.com/kvassay/heaparena/pkg/utils"
)

// DefaultPageSize is NORMAL_ALLOCATION_SIZE: the minimum page size used
// when a requested allocation would otherwise fit in a smaller page.
// Requests larger than this get a page sized exactly to the request (plus
// header overhead).
var DefaultPageSize = 64 * 1024

// Option configures a HeapArena at construction time.
type Option struct{ apply func(*HeapArena) }

// WithPageSize overrides DefaultPageSize for one arena. Panics if size is
// too small to hold a page header, a node header, and at least one byte
// of payload.
func WithPageSize(size int) Option {
	return Option{func(a *HeapArena) {
		utils.Assertf(size >= pageHeaderSize+nodeHeaderSize+1,
			"arena: page size %d too small for header overhead", size)
		a.pageSize = size
	}}
}

// WithChecksums turns on the optional per-node integrity checksum: a
// debug aid, not a correctness requirement, that trades per-operation
// hashing for a chance to catch misuse (double-free, alien pointers,
// corrupted headers) as a Corruption error instead of silent heap
// damage.
func WithChecksums(enabled bool) Option {
	return Option{func(a *HeapArena) { a.checksums = enabled }}
}

// HeapArena is a single-threaded general-purpose allocator. Its zero value
// is not usable; construct one with New. Concurrent use from more than one
// goroutine at a time is a programming error - wrap it in arenasync.Guarded
// if that's needed.
type HeapArena struct {
	supplier     pagesupplier.Supplier
	pageSize     int
	checksums    bool
	checksumSeed maphash.Seed

	firstPage *page
	lastPage  *page

	firstAddr *Node
	lastAddr  *Node

	treeRoot *Node

	allocatedSize int
	freeSize      int
}

// New creates an empty arena drawing pages from supplier.
func New(supplier pagesupplier.Supplier, opts ...Option) *HeapArena {
	a := &HeapArena{
		supplier:     supplier,
		pageSize:     DefaultPageSize,
		checksumSeed: maphash.MakeSeed(),
	}
	for _, opt := range opts {
		opt.apply(a)
	}
	return a
}

// AllocatedSize returns the total bytes obtained from the page supplier
// so far.
func (a *HeapArena) AllocatedSize() int { return a.allocatedSize }

// FreeSize returns the sum of size over all free nodes.
func (a *HeapArena) FreeSize() int { return a.freeSize }

// Allocate reserves size bytes and returns a handle to them. Only
// OutOfMemory can make this fail, and only because the page supplier
// refused a new page.
func (a *HeapArena) Allocate(size int) (Ptr, error) {
	utils.Assertf(size >= 0, "arena: negative allocation size %d", size)

	if a.firstPage == nil {
		if _, err := a.acquirePage(size); err != nil {
			return Ptr{}, err
		}
	}

	n := a.findBestFit(size)
	if n == nil {
		fresh, err := a.acquirePage(size)
		if err != nil {
			return Ptr{}, err
		}
		n = fresh
	}

	a.treeRemove(n)
	n.reset()
	n.occupied = true
	n.usedSize = size

	if n.size > size+nodeHeaderSize {
		m := nodeAtOffset(n, size)
		*m = Node{
			size:  n.size - size - nodeHeaderSize,
			block: n.block,
			clr:   red,
		}

		n.size = size

		a.addrInsertAfter(n, m)
		a.treeInsert(m)
		a.freeSize -= nodeHeaderSize
		if a.checksums {
			m.checksum = a.nodeChecksum(m)
		}
	}

	a.freeSize -= n.size
	if a.checksums {
		n.checksum = a.nodeChecksum(n)
	}

	return Ptr{node: n}, nil
}

// Free releases a region returned by a prior Allocate/Realloc on this
// arena. Passing an alien or already-freed Ptr is undefined behavior; with
// checksums enabled a corrupted header is detected and reported as a
// Corruption error instead of silently misbehaving.
func (a *HeapArena) Free(p Ptr) {
	n := p.node
	utils.Assert(n != nil, "arena: Free called on the zero Ptr")
	a.checkNode(n, "Free")

	n.occupied = false
	n.usedSize = 0
	a.freeSize += n.size

	if next := n.nextAddr; next != nil && !next.occupied && next.block == n.block {
		a.treeRemove(next)
		a.addrUnlink(next)
		n.size += nodeHeaderSize + next.size
		a.freeSize += nodeHeaderSize
	}

	if prev := n.prevAddr; prev != nil && !prev.occupied && prev.block == n.block {
		a.treeRemove(prev)
		prev.size += nodeHeaderSize + n.size
		a.freeSize += nodeHeaderSize
		a.addrUnlink(n)
		n = prev
	}

	n.reset()
	a.treeInsert(n)
	if a.checksums {
		n.checksum = a.nodeChecksum(n)
	}
}

// Realloc resizes the region behind p to newSize, preserving its content
// (up to the smaller of the old and new sizes). It short-circuits to a
// no-op only when newSize equals the region's current used size. The
// returned Ptr may equal p - most notably when coalescing during the
// internal free makes the same node the best fit again - in which case no
// copy happens and the payload bytes are left undisturbed.
func (a *HeapArena) Realloc(p Ptr, newSize int) (Ptr, error) {
	n := p.node
	utils.Assert(n != nil, "arena: Realloc called on the zero Ptr")
	a.checkNode(n, "Realloc")

	old := n.usedSize
	if old == newSize {
		return p, nil
	}

	oldBytes := make([]byte, old)
	copy(oldBytes, n.payload()[:old])

	a.Free(p)
	q, err := a.Allocate(newSize)
	if err != nil {
		return Ptr{}, err
	}

	if q.node == n {
		return q, nil
	}

	n2 := old
	if newSize < n2 {
		n2 = newSize
	}
	copy(q.node.payload()[:n2], oldBytes[:n2])
	return q, nil
}

// Release hands every page back to the supplier and zeros the arena's
// state. Idempotent: calling it again on an already-released (or never
// used) arena is a no-op.
func (a *HeapArena) Release() {
	a.releaseAll()
}

func (a *HeapArena) checkNode(n *Node, op string) {
	if !a.checksums {
		return
	}
	if got := a.nodeChecksum(n); got != n.checksum {
		fatal("%s: node checksum mismatch, header corrupted or pointer is alien/double-freed", op)
	}
}
