package arena

import (
	"unsafe"

	apkg "github.com/kvassay/heaparena/pkg/errors"
)

// page is one slab obtained from the page supplier. Nodes never reference
// a page's data slice directly; they're reached only through the first
// node's header address plus header/size arithmetic, the same way the
// original allocator never names its MemoryBlock's backing storage
// directly either.
type page struct {
	next *page
	data []byte // the whole slab returned by the supplier
}

// pageHeaderSize is the fixed per-page bookkeeping overhead: bytes
// reserved at the front of every slab before the first node's header. The
// arena keeps the page struct itself on the Go heap (it holds a slice
// header, which must stay a real Go value for the garbage collector to
// track), but still charges this many bytes against the slab so the
// allocated-size/free-size accounting matches a layout where the header
// really were in-band.
var pageHeaderSize = int(unsafe.Sizeof(page{}))

// acquirePage asks the supplier for enough room to satisfy minPayload (or
// the configured default page size, whichever is larger), threads the new
// page onto the arena's page list, and returns its sole free node - already
// wired into the address-order list and the free-size index.
func (a *HeapArena) acquirePage(minPayload int) (*Node, error) {
	want := minPayload + pageHeaderSize + nodeHeaderSize
	if want < a.pageSize {
		want = a.pageSize
	}

	slab, err := a.supplier.GetMemory(want)
	if err != nil {
		return nil, apkg.NewOutOfMemoryError(err)
	}

	pg := &page{data: slab}
	if a.firstPage == nil {
		a.firstPage = pg
		a.lastPage = pg
	} else {
		a.lastPage.next = pg
		a.lastPage = pg
	}

	n := nodeAt(unsafe.Pointer(&slab[pageHeaderSize]))
	*n = Node{
		size:  len(slab) - pageHeaderSize - nodeHeaderSize,
		block: pg,
		clr:   red,
	}

	a.allocatedSize += len(slab)
	a.freeSize += n.size

	a.addrAppend(n)
	a.treeInsert(n)
	if a.checksums {
		n.checksum = a.nodeChecksum(n)
	}
	return n, nil
}

// releaseAll hands every page back to the supplier and zeros the arena's
// bookkeeping. Never fails: a supplier that refuses FreeMemory only leaks,
// it doesn't corrupt the (already-discarded) arena state.
func (a *HeapArena) releaseAll() {
	pg := a.firstPage
	for pg != nil {
		next := pg.next
		_ = a.supplier.FreeMemory(pg.data)
		pg = next
	}
	*a = HeapArena{
		supplier:     a.supplier,
		pageSize:     a.pageSize,
		checksums:    a.checksums,
		checksumSeed: a.checksumSeed,
	}
}
