package arena

// Ptr is a handle to a region of the arena returned by Allocate or
// Realloc. It deliberately isn't a bare []byte: recovering a node's header
// from an arbitrary slice - in particular a zero-length one, which a
// zero-byte allocation always produces - isn't reliably invertible, so the
// handle carries the node pointer directly instead and hands out payload
// views on demand.
type Ptr struct {
	node *Node
}

// IsNil reports whether p is the zero Ptr - never returned by a successful
// Allocate/Realloc, but convenient as a sentinel for callers that need one.
func (p Ptr) IsNil() bool { return p.node == nil }

// Bytes returns the client-visible view of the region: exactly UsedSize()
// bytes. Writing to and reading back the full length is always safe; the
// arena never moves a live region out from under its Ptr.
func (p Ptr) Bytes() []byte {
	if p.node == nil {
		return nil
	}
	return p.node.payload()[:p.node.usedSize]
}

// Cap returns the region's full capacity, including any unsplit slack
// beyond UsedSize left over from the allocation that produced it.
func (p Ptr) Cap() int {
	if p.node == nil {
		return 0
	}
	return p.node.size
}

// UsedSize returns the byte count the client originally requested.
func (p Ptr) UsedSize() int {
	if p.node == nil {
		return 0
	}
	return p.node.usedSize
}
