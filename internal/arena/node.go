package arena

import "unsafe"

// color is the red-black tree node color. Free-only; occupied nodes never
// carry a meaningful color.
type color uint8

const (
	red color = iota
	black
)

// Node is the in-band header that precedes every byte region the arena
// manages, free or occupied. It is never copied by value once placed in a
// page; all links below are *Node so the header lives exactly once, at a
// fixed address, for its whole lifetime.
type Node struct {
	size     int // byte capacity of the region that follows this header
	usedSize int // bytes actually requested by the client; 0 when free
	occupied bool
	block    *page // owning page, for same-page coalescing checks

	prevAddr *Node // address-order neighbors, regardless of occupancy
	nextAddr *Node

	// Free-only: red-black tree links. Left zero-valued while occupied.
	parent *Node
	left   *Node
	right  *Node
	clr    color

	// Free-only: duplicate-chain links. dupPrev/dupNext are non-nil only
	// for nodes sharing a tree slot's size; the chain head is the tree
	// slot itself.
	dupPrev *Node
	dupNext *Node

	checksum uint64 // valid only when the owning arena has checksums enabled
}

// nodeHeaderSize is the fixed per-allocation header overhead. Go
// guarantees unsafe.Sizeof(T) is already a multiple of
// unsafe.Alignof(T), so a header placed at an aligned address always leaves
// its payload, and the following header, naturally reachable by pointer
// arithmetic the same way the arena's original C ancestor placed them -
// without any extra rounding.
var nodeHeaderSize = int(unsafe.Sizeof(Node{}))

// nodeAt reinterprets the start of a page's backing array (or any address
// inside it produced by prior header math) as a Node header. The caller is
// responsible for the address being valid and large enough.
func nodeAt(addr unsafe.Pointer) *Node {
	return (*Node)(addr)
}

// payloadAddr returns the address immediately following n's header, i.e.
// where n's payload bytes start.
func payloadAddr(n *Node) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(n), nodeHeaderSize)
}

// payload returns the full capacity view of n's region: n.size bytes
// starting right after the header, regardless of used_size. Free nodes,
// slack bytes of a non-split allocation, and client-visible data are all
// reachable through this; callers that must not see slack (e.g. a public
// accessor for client data) should slice down to n.usedSize.
func (n *Node) payload() []byte {
	if n.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(payloadAddr(n)), n.size)
}

// nodeAtOffset reinterprets the address `size` bytes into n's payload as a
// new Node header, used when splitting n's tail into a fresh free node.
func nodeAtOffset(n *Node, size int) *Node {
	return nodeAt(unsafe.Add(payloadAddr(n), size))
}

// reset clears every tree/duplicate-chain link and forces the node red,
// the state a node must be in just before RBT insertion. Mirrors the
// original allocator's RBT_ResetNode.
func (n *Node) reset() {
	n.parent = nil
	n.left = nil
	n.right = nil
	n.dupPrev = nil
	n.dupNext = nil
	n.clr = red
}
