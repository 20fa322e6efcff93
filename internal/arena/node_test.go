package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNodeHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, nodeHeaderSize+256)
	n := nodeAt(unsafe.Pointer(&buf[0]))
	*n = Node{size: 256, clr: red}

	require.Equal(t, 256, len(n.payload()))
	require.Same(t, &buf[nodeHeaderSize], &n.payload()[0])
}

func TestNodeAtOffsetSplitsPayload(t *testing.T) {
	buf := make([]byte, nodeHeaderSize+100+nodeHeaderSize+40)
	n := nodeAt(unsafe.Pointer(&buf[0]))
	*n = Node{size: 100 + nodeHeaderSize + 40, clr: red}

	m := nodeAtOffset(n, 100)
	*m = Node{size: 40, clr: red}

	require.Equal(t, 40, len(m.payload()))
	require.Same(t, &buf[nodeHeaderSize+100+nodeHeaderSize], &m.payload()[0])
}

func TestNodeResetClearsLinksAndForcesRed(t *testing.T) {
	other := &Node{}
	n := &Node{parent: other, left: other, right: other, dupPrev: other, dupNext: other, clr: black}
	n.reset()

	require.Nil(t, n.parent)
	require.Nil(t, n.left)
	require.Nil(t, n.right)
	require.Nil(t, n.dupPrev)
	require.Nil(t, n.dupNext)
	require.Equal(t, red, n.clr)
}

func TestZeroSizePayloadIsNil(t *testing.T) {
	n := &Node{size: 0}
	require.Nil(t, n.payload())
}
