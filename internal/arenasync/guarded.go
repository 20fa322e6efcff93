// Package arenasync provides an opt-in concurrency wrapper around
// arena.HeapArena, which is single-threaded by design. Guarded trims a
// reader-writer lock style down to a plain mutex: unlike a B-tree keyed
// store, the arena has no operation that is safe to run concurrently with
// another, not even two reads - Dump walks live pointer structures that
// Allocate/Free mutate in place, and AllocatedSize/FreeSize read counters
// those calls update, so there is no reader/writer split to make.
package arenasync

import (
	"io"
	"sync"
	"time"

	"github.com/kvassay/heaparena/internal/arena"
)

// LockStats tracks how much contention Guarded has observed.
type LockStats struct {
	mu           sync.Mutex
	Acquisitions int64
	WaitTime     time.Duration
}

func (s *LockStats) record(waited time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Acquisitions++
	s.WaitTime += waited
}

// Snapshot returns a copy of the current stats, safe to read without
// racing further updates.
func (s *LockStats) Snapshot() LockStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LockStats{Acquisitions: s.Acquisitions, WaitTime: s.WaitTime}
}

// Guarded serializes access to a *arena.HeapArena so it can be shared
// across goroutines. Every method takes the same exclusive lock; there is
// no RLock, deliberately - see the package doc comment.
type Guarded struct {
	mu    sync.Mutex
	a     *arena.HeapArena
	stats LockStats
}

// NewGuarded wraps a, which must not be used directly again after this
// call - all access should go through the returned Guarded.
func NewGuarded(a *arena.HeapArena) *Guarded {
	return &Guarded{a: a}
}

func (g *Guarded) lock() {
	start := time.Now()
	g.mu.Lock()
	g.stats.record(time.Since(start))
}

// Stats returns a snapshot of lock contention statistics.
func (g *Guarded) Stats() LockStats { return g.stats.Snapshot() }

// Allocate is arena.HeapArena.Allocate under the guard's lock.
func (g *Guarded) Allocate(size int) (arena.Ptr, error) {
	g.lock()
	defer g.mu.Unlock()
	return g.a.Allocate(size)
}

// Free is arena.HeapArena.Free under the guard's lock.
func (g *Guarded) Free(p arena.Ptr) {
	g.lock()
	defer g.mu.Unlock()
	g.a.Free(p)
}

// Realloc is arena.HeapArena.Realloc under the guard's lock.
func (g *Guarded) Realloc(p arena.Ptr, newSize int) (arena.Ptr, error) {
	g.lock()
	defer g.mu.Unlock()
	return g.a.Realloc(p, newSize)
}

// Release is arena.HeapArena.Release under the guard's lock.
func (g *Guarded) Release() {
	g.lock()
	defer g.mu.Unlock()
	g.a.Release()
}

// Dump is arena.HeapArena.Dump under the guard's lock.
func (g *Guarded) Dump(w io.Writer) {
	g.lock()
	defer g.mu.Unlock()
	g.a.Dump(w)
}

// AllocatedSize is arena.HeapArena.AllocatedSize under the guard's lock.
func (g *Guarded) AllocatedSize() int {
	g.lock()
	defer g.mu.Unlock()
	return g.a.AllocatedSize()
}

// FreeSize is arena.HeapArena.FreeSize under the guard's lock.
func (g *Guarded) FreeSize() int {
	g.lock()
	defer g.mu.Unlock()
	return g.a.FreeSize()
}
