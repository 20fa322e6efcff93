package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// checkRedBlackInvariants walks the tree rooted at root and fails t if the
// red-black properties don't hold: the root is black, no red node has a red
// child, and every root-to-nil path carries the same black-node count. It
// also checks the duplicate chains and returns the in-order sequence of
// distinct sizes, which must come out strictly increasing.
func checkRedBlackInvariants(t *testing.T, root *Node) []int {
	t.Helper()
	if root != nil {
		require.Equal(t, black, root.clr, "root must be black")
	}

	var sizes []int
	var walk func(n *Node, parentRed bool) int
	walk = func(n *Node, parentRed bool) int {
		if n == nil {
			return 1
		}
		if parentRed {
			require.Equal(t, black, n.clr, "red node %d has a red parent", n.size)
		}
		if n.left != nil {
			require.Same(t, n, n.left.parent)
		}
		if n.right != nil {
			require.Same(t, n, n.right.parent)
		}
		for d := n.dupNext; d != nil; d = d.dupNext {
			require.Equal(t, n.size, d.size, "duplicate chain member size mismatch")
		}

		leftBH := walk(n.left, n.clr == red)
		rightBH := walk(n.right, n.clr == red)
		require.Equal(t, leftBH, rightBH, "black height mismatch at size %d", n.size)

		bh := leftBH
		if n.clr == black {
			bh++
		}
		return bh
	}

	var inorder func(n *Node)
	inorder = func(n *Node) {
		if n == nil {
			return
		}
		inorder(n.left)
		sizes = append(sizes, n.size)
		inorder(n.right)
	}

	walk(root, false)
	inorder(root)
	for i := 1; i < len(sizes); i++ {
		require.Less(t, sizes[i-1], sizes[i], "tree slots must be strictly increasing")
	}
	return sizes
}

func TestTreeInsertMaintainsInvariants(t *testing.T) {
	a := &HeapArena{}
	sizes := []int{50, 30, 70, 20, 40, 60, 80, 10, 25, 35, 45, 55, 65, 75, 85}
	for _, s := range sizes {
		n := &Node{size: s, clr: red}
		a.treeInsert(n)
		checkRedBlackInvariants(t, a.treeRoot)
	}
}

func TestTreeInsertDuplicateSizesFormChain(t *testing.T) {
	a := &HeapArena{}
	first := &Node{size: 100, clr: red}
	a.treeInsert(first)
	second := &Node{size: 100, clr: red}
	a.treeInsert(second)
	third := &Node{size: 100, clr: red}
	a.treeInsert(third)

	require.Same(t, first, a.treeRoot)
	require.Same(t, third, first.dupNext)
	require.Same(t, second, third.dupNext)
	require.Same(t, third, second.dupPrev)
}

func TestFindBestFitExactAndNextLarger(t *testing.T) {
	a := &HeapArena{}
	for _, s := range []int{16, 32, 64, 128} {
		a.treeInsert(&Node{size: s, clr: red})
	}

	exact := a.findBestFit(64)
	require.NotNil(t, exact)
	require.Equal(t, 64, exact.size)

	next := a.findBestFit(65)
	require.NotNil(t, next)
	require.Equal(t, 128, next.size)

	require.Nil(t, a.findBestFit(200))
	require.Equal(t, 16, a.findBestFit(1).size)
}

func TestTreeRemoveNonHeadDuplicate(t *testing.T) {
	a := &HeapArena{}
	head := &Node{size: 100, clr: red}
	a.treeInsert(head)
	dup := &Node{size: 100, clr: red}
	a.treeInsert(dup)

	a.treeRemove(dup)
	require.Same(t, head, a.treeRoot)
	require.Nil(t, head.dupNext)
}

func TestTreeRemoveHeadPromotesDuplicate(t *testing.T) {
	a := &HeapArena{}
	head := &Node{size: 100, clr: red}
	a.treeInsert(head)
	dup := &Node{size: 100, clr: red}
	a.treeInsert(dup)

	a.treeRemove(head)
	require.Same(t, dup, a.treeRoot)
	require.Nil(t, dup.dupNext)
	require.Nil(t, dup.dupPrev)
}

func TestTreeInsertRemoveRandomOrderMaintainsInvariants(t *testing.T) {
	a := &HeapArena{}
	var nodes []*Node
	// Distinct sizes in an order that exercises several rotation shapes.
	for _, s := range []int{40, 20, 60, 10, 30, 50, 70, 5, 15, 25, 35, 45, 55, 65, 75} {
		n := &Node{size: s, clr: red}
		nodes = append(nodes, n)
		a.treeInsert(n)
	}
	checkRedBlackInvariants(t, a.treeRoot)

	// Remove in a different order than inserted, checking invariants after
	// every removal - this walks through every case in removeBlackLeaf.
	order := []int{0, 7, 14, 1, 8, 13, 2, 9, 12, 3, 10, 11, 4, 5, 6}
	for _, idx := range order {
		a.treeRemove(nodes[idx])
		checkRedBlackInvariants(t, a.treeRoot)
	}
	require.Nil(t, a.treeRoot)
}
