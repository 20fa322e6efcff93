package pagesupplier

import (
	"errors"
	"fmt"
)

// FakeSupplier is an in-memory stand-in for OSSupplier, grounded on the
// reference-shadow fixture pattern used by B-tree stress tests in this
// codebase's ancestry: a plain Go map tracks which regions are currently
// outstanding, so double-frees and alien pointers can be caught in tests
// instead of corrupting real memory.
type FakeSupplier struct {
	live      map[*byte]int
	calls     int
	failAfter int // 0 means never fail
}

// NewFakeSupplier returns a FakeSupplier that never fails GetMemory.
func NewFakeSupplier() *FakeSupplier {
	return &FakeSupplier{live: map[*byte]int{}}
}

// FailAfter makes the n-th call to GetMemory (1-indexed) and every call
// after it fail, so OutOfMemory propagation can be exercised deterministically.
func (s *FakeSupplier) FailAfter(n int) {
	s.failAfter = n
}

func (s *FakeSupplier) GetMemory(byteCount int) ([]byte, error) {
	s.calls++
	if s.failAfter > 0 && s.calls >= s.failAfter {
		return nil, errors.New("fakesupplier: simulated exhaustion")
	}
	region := make([]byte, byteCount)
	s.live[&region[0]] = byteCount
	return region, nil
}

func (s *FakeSupplier) FreeMemory(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	size, ok := s.live[&region[0]]
	if !ok {
		return fmt.Errorf("fakesupplier: region not outstanding (double free or alien pointer)")
	}
	if size != len(region) {
		return fmt.Errorf("fakesupplier: region size mismatch: got %d want %d", len(region), size)
	}
	delete(s.live, &region[0])
	return nil
}

// Outstanding reports how many regions have been handed out but not yet
// returned. Used by tests to assert release() reaches every page.
func (s *FakeSupplier) Outstanding() int {
	return len(s.live)
}
