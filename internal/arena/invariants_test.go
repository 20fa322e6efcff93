package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// checkInvariants walks an arena's full internal state and fails t if any
// of the structural invariants from the allocator's contract don't hold:
//
//   - free_size equals the sum of size over every free node reachable from
//     the address-order list
//   - every node in the address-order list is either occupied or present,
//     exactly once, in the free-size tree (and vice versa)
//   - the free-size tree itself is a valid red-black tree (delegated to
//     checkRedBlackInvariants)
//   - address-order neighbors never sit adjacent in memory while both free
//     and on the same page - Free's coalescing must have caught that
func checkInvariants(t *testing.T, a *HeapArena) {
	t.Helper()

	freeFromAddrList := 0
	var free, occupied int
	seen := map[*Node]bool{}
	for n := a.firstAddr; n != nil; n = n.nextAddr {
		seen[n] = true
		if n.occupied {
			occupied++
		} else {
			free++
			freeFromAddrList += n.size
		}
		if n.nextAddr != nil {
			require.Less(t, uintptr(unsafe.Pointer(n)), uintptr(unsafe.Pointer(n.nextAddr)),
				"address list must be in ascending address order")
			if !n.occupied && !n.nextAddr.occupied && n.block == n.nextAddr.block {
				t.Fatalf("adjacent free nodes on the same page were not coalesced")
			}
		}
	}
	require.Equal(t, a.freeSize, freeFromAddrList, "free_size must match the sum of free node sizes")

	treeSizes := checkRedBlackInvariants(t, a.treeRoot)
	freeFromTree := 0
	inTree := map[*Node]bool{}
	var walkCount func(n *Node) int
	walkCount = func(n *Node) int {
		if n == nil {
			return 0
		}
		c := 0
		for d := n; d != nil; d = d.dupNext {
			require.True(t, seen[d], "tree node of size %d is not in the address-order list", d.size)
			require.False(t, d.occupied, "occupied node of size %d is in the free-size tree", d.size)
			require.False(t, inTree[d], "node of size %d appears in the free-size tree twice", d.size)
			inTree[d] = true
			c++
		}
		return c + walkCount(n.left) + walkCount(n.right)
	}
	require.Equal(t, free, walkCount(a.treeRoot), "tree must contain exactly the free nodes")
	for _, s := range treeSizes {
		freeFromTree += s
	}
	_ = freeFromTree // sizes alone don't capture dup-chain contributions; count check above is definitive
}
