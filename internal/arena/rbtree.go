package arena

import "github.com/kvassay/heaparena/pkg/utils"

// The free-size index: a red-black tree keyed by Node.size, containing
// exactly the free nodes. Equal-size nodes after the first share one tree
// slot via the dup chain (dupPrev/dupNext), whose head is the tree slot
// itself - so the tree never has two nodes of the same size.
//
// The balancing algorithm follows the canonical Wikipedia presentation
// (insertion fix-up by uncle recoloring or rotation at the grandparent;
// deletion fix-up by the sibling/close-nephew/distant-nephew case split).
// The two-child deletion case is resolved iteratively: swap with the
// in-order successor (which never has a left child), then fall through to
// the at-most-one-child cases below - no recursion, preferred here over
// a direct port of the single level of self-recursion this was ported
// from.

func (a *HeapArena) rotateLeft(x *Node) {
	y := x.right
	utils.Assert(y != nil, "rotateLeft: missing right child")

	x.right = y.left
	if x.right != nil {
		x.right.parent = x
	}
	y.left = x

	y.parent = x.parent
	switch {
	case y.parent == nil:
		a.treeRoot = y
	case y.parent.left == x:
		y.parent.left = y
	case y.parent.right == x:
		y.parent.right = y
	default:
		panic("rotateLeft: inconsistent parent link")
	}
	x.parent = y
}

func (a *HeapArena) rotateRight(x *Node) {
	y := x.left
	utils.Assert(y != nil, "rotateRight: missing left child")

	x.left = y.right
	if x.left != nil {
		x.left.parent = x
	}
	y.right = x

	y.parent = x.parent
	switch {
	case y.parent == nil:
		a.treeRoot = y
	case y.parent.left == x:
		y.parent.left = y
	case y.parent.right == x:
		y.parent.right = y
	default:
		panic("rotateRight: inconsistent parent link")
	}
	x.parent = y
}

// findBestFit returns the free node of smallest size >= s, or nil. Descends
// left (saving a candidate) on "too large", right on "too small"; the last
// saved candidate is the answer once the search runs off the tree.
func (a *HeapArena) findBestFit(s int) *Node {
	node := a.treeRoot
	var best *Node
	for node != nil {
		if node.size == s {
			return node
		}
		if node.size < s {
			node = node.right
			continue
		}
		best = node
		node = node.left
	}
	return best
}

// treeInsert adds a free node that is not yet linked into the tree or a
// duplicate chain. n must have occupied=false and a fresh reset() state.
func (a *HeapArena) treeInsert(n *Node) {
	if a.treeRoot == nil {
		a.treeRoot = n
		n.clr = black
		return
	}

	parent := a.treeRoot
	for {
		if parent.size == n.size {
			n.dupNext = parent.dupNext
			if n.dupNext != nil {
				n.dupNext.dupPrev = n
			}
			parent.dupNext = n
			n.dupPrev = parent
			return
		}
		if parent.size > n.size {
			if parent.left != nil {
				parent = parent.left
				continue
			}
			parent.left = n
			break
		}
		if parent.right != nil {
			parent = parent.right
			continue
		}
		parent.right = n
		break
	}
	n.parent = parent

	a.insertFixup(n)
}

func (a *HeapArena) insertFixup(node *Node) {
	for {
		parent := node.parent
		if parent == nil {
			node.clr = black
			return
		}
		if parent.clr == black {
			return
		}

		grandparent := parent.parent
		if grandparent == nil {
			parent.clr = black
			return
		}

		var uncle *Node
		parentIsLeft := grandparent.left == parent
		if parentIsLeft {
			uncle = grandparent.right
		} else {
			uncle = grandparent.left
		}

		if uncle != nil && uncle.clr == red {
			parent.clr = black
			uncle.clr = black
			grandparent.clr = red
			node = grandparent
			continue
		}

		nodeIsLeft := parent.left == node
		if parentIsLeft != nodeIsLeft {
			if nodeIsLeft {
				a.rotateRight(parent)
			} else {
				a.rotateLeft(parent)
			}
			if parentIsLeft {
				parent = grandparent.left
			} else {
				parent = grandparent.right
			}
		}

		if parentIsLeft {
			a.rotateRight(grandparent)
		} else {
			a.rotateLeft(grandparent)
		}
		parent.clr = black
		grandparent.clr = red
		return
	}
}

// treeRemove removes n from the free-size index, handling the three
// shapes a removal can take: a non-head duplicate, a tree slot with a
// duplicate chain to promote from, or a tree slot that needs full
// red-black deletion.
func (a *HeapArena) treeRemove(n *Node) {
	if n.dupPrev != nil {
		// n sits in a duplicate chain but is not the tree slot: detach
		// only from the chain, tree topology is untouched.
		n.dupPrev.dupNext = n.dupNext
		if n.dupNext != nil {
			n.dupNext.dupPrev = n.dupPrev
		}
		n.dupPrev, n.dupNext = nil, nil
		return
	}

	if next := n.dupNext; next != nil {
		// n is the tree slot and has a non-empty duplicate chain: promote
		// the first chain member into n's tree position.
		next.clr = n.clr
		next.left = n.left
		if next.left != nil {
			next.left.parent = next
		}
		next.right = n.right
		if next.right != nil {
			next.right.parent = next
		}
		next.dupPrev = nil

		next.parent = n.parent
		switch {
		case next.parent == nil:
			a.treeRoot = next
		case next.parent.left == n:
			next.parent.left = next
		case next.parent.right == n:
			next.parent.right = next
		default:
			panic("treeRemove: inconsistent parent link during promotion")
		}
		n.left, n.right, n.parent = nil, nil, nil
		return
	}

	a.removeNode(n)
}

// swapNodes exchanges the tree positions (but not the payloads/size) of
// first and second, preserving each side's subtree and color in the other
// slot. second must be strictly deeper than, or at the same level as,
// first - the only caller relies on second being first's in-order
// successor, which always satisfies this.
func (a *HeapArena) swapNodes(first, second *Node) {
	var secondIsLeft bool
	utils.Assert(second.parent != nil, "swapNodes: second has no parent")
	secondIsLeft = second.parent.left == second

	var firstIsLeft bool
	if first.parent != nil {
		firstIsLeft = first.parent.left == first
	}

	firstLeft, firstRight, firstColor := first.left, first.right, first.clr

	first.left = second.left
	if first.left != nil {
		first.left.parent = first
	}
	first.right = second.right
	if first.right != nil {
		first.right.parent = first
	}
	first.clr = second.clr

	second.left = firstLeft
	if second.left != nil {
		second.left.parent = second
	}
	second.right = firstRight
	if second.right != nil {
		second.right.parent = second
	}
	second.clr = firstColor

	newFirstParent := second.parent
	newSecondParent := first.parent
	if newFirstParent == first {
		newFirstParent = second
	}

	first.parent = newFirstParent
	if secondIsLeft {
		newFirstParent.left = first
	} else {
		newFirstParent.right = first
	}

	second.parent = newSecondParent
	if newSecondParent == nil {
		a.treeRoot = second
		return
	}
	if firstIsLeft {
		newSecondParent.left = second
	} else {
		newSecondParent.right = second
	}
}

// removeNode performs full red-black deletion of a tree-slot node with an
// empty duplicate chain.
func (a *HeapArena) removeNode(node *Node) {
	for node.left != nil && node.right != nil {
		successor := node.right
		for successor.left != nil {
			successor = successor.left
		}
		a.swapNodes(node, successor)
		// node now occupies successor's old position: at most one
		// (right) child, since successor had no left child.
	}

	if node.left != nil {
		a.replaceWithChild(node, node.left)
		return
	}
	if node.right != nil {
		a.replaceWithChild(node, node.right)
		return
	}

	if node.parent == nil {
		a.treeRoot = nil
		return
	}

	if node.clr == red {
		a.detachLeaf(node)
		return
	}

	a.removeBlackLeaf(node)
}

func (a *HeapArena) replaceWithChild(node, child *Node) {
	child.clr = black
	child.parent = node.parent
	if node.parent == nil {
		a.treeRoot = child
		return
	}
	switch {
	case node.parent.left == node:
		node.parent.left = child
	case node.parent.right == node:
		node.parent.right = child
	default:
		panic("replaceWithChild: inconsistent parent link")
	}
}

func (a *HeapArena) detachLeaf(node *Node) {
	switch {
	case node.parent.left == node:
		node.parent.left = nil
	case node.parent.right == node:
		node.parent.right = nil
	default:
		panic("detachLeaf: inconsistent parent link")
	}
}

// removeBlackLeaf rebalances after removing a black leaf with a parent
// (the root case is handled by the caller). It walks up the tree fixing
// double-black violations via the sibling/nephew case analysis.
func (a *HeapArena) removeBlackLeaf(node *Node) {
	parent := node.parent
	var dirLeft bool
	switch {
	case parent.left == node:
		dirLeft = true
		parent.left = nil
	case parent.right == node:
		dirLeft = false
		parent.right = nil
	default:
		panic("removeBlackLeaf: inconsistent parent link")
	}

	for {
		var sibling, closeNephew, distantNephew *Node
		if dirLeft {
			sibling = parent.right
			if sibling != nil {
				closeNephew, distantNephew = sibling.left, sibling.right
			}
		} else {
			sibling = parent.left
			if sibling != nil {
				closeNephew, distantNephew = sibling.right, sibling.left
			}
		}

		isBlack := func(n *Node) bool { return n == nil || n.clr == black }

		if isBlack(parent) && isBlack(sibling) && isBlack(closeNephew) && isBlack(distantNephew) {
			// Case #2: recolor sibling red and recurse up one level.
			sibling.clr = red
			node = parent
			if node.parent == nil {
				return
			}
			parent = node.parent
			switch {
			case parent.left == node:
				dirLeft = true
			case parent.right == node:
				dirLeft = false
			default:
				panic("removeBlackLeaf: inconsistent parent link")
			}
			continue
		}

		if !isBlack(sibling) {
			// Case #3: rotate sibling into the parent's place.
			if dirLeft {
				a.rotateLeft(parent)
			} else {
				a.rotateRight(parent)
			}
			parent.clr = red
			sibling.clr = black

			sibling = closeNephew
			if dirLeft {
				closeNephew, distantNephew = sibling.left, sibling.right
			} else {
				closeNephew, distantNephew = sibling.right, sibling.left
			}
		}

		if isBlack(sibling) && isBlack(closeNephew) && isBlack(distantNephew) {
			// Case #4: parent must be red here.
			parent.clr = black
			sibling.clr = red
			return
		}

		if isBlack(distantNephew) && !isBlack(closeNephew) {
			// Case #5: rotate the close nephew in before case #6.
			if dirLeft {
				a.rotateRight(sibling)
				sibling = closeNephew
				closeNephew, distantNephew = sibling.left, sibling.right
			} else {
				a.rotateLeft(sibling)
				sibling = closeNephew
				closeNephew, distantNephew = sibling.right, sibling.left
			}
			sibling.clr = black
			distantNephew.clr = red
		}

		// Case #6: the distant nephew is red; one rotation finishes it.
		if dirLeft {
			a.rotateLeft(parent)
		} else {
			a.rotateRight(parent)
		}
		sibling.clr = parent.clr
		parent.clr = black
		distantNephew.clr = black
		return
	}
}
