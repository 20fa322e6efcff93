package arena

import (
	"encoding/binary"
	"hash/maphash"
	"unsafe"
)

// nodeChecksum is the optional integrity check enabled by WithChecksums. It
// covers only the portion of a node's header that never changes between the
// moment a client receives a Ptr and the moment it hands that Ptr back to
// Free or Realloc: size and the owning page. Fields such as usedSize,
// occupied, or the tree/duplicate links are free to mutate (another
// allocation may reuse this exact header once freed) and so are deliberately
// excluded - checking them would flag perfectly normal reuse as corruption.
//
// This is a debug aid, not a cryptographic guarantee: a client that
// corrupts memory in a way that happens to preserve size and block will not
// be caught. Its job is to turn the common cases - a Ptr into a different
// arena (each arena has its own seed), a stray write that clobbered the
// header - into a reported Corruption error instead of a silent crash
// deeper in the tree. A stale Ptr is not reliably caught: Allocate and Free
// recompute the checksum of every node they place or free, so a freed or
// reused header still matches; only a header since overwritten by other
// bytes fails the check.
func (a *HeapArena) nodeChecksum(n *Node) uint64 {
	var h maphash.Hash
	h.SetSeed(a.checksumSeed)

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n.size))
	h.Write(buf[:])

	binary.LittleEndian.PutUint64(buf[:], uint64(uintptr(unsafe.Pointer(n.block))))
	h.Write(buf[:])

	return h.Sum64()
}
