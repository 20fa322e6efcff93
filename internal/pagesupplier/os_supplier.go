package pagesupplier

import (
	"fmt"
	"syscall"
)

// OSSupplier hands out anonymous, process-private mappings via mmap and
// releases them via munmap. Unlike a file-backed mapping (see the btree
// package this was adapted from) there is no backing file: every page is
// MAP_PRIVATE|MAP_ANON, zero-filled by the kernel on first touch.
type OSSupplier struct{}

// NewOSSupplier returns the default, OS-backed page supplier.
func NewOSSupplier() *OSSupplier {
	return &OSSupplier{}
}

func (s *OSSupplier) GetMemory(byteCount int) ([]byte, error) {
	if byteCount <= 0 {
		return nil, fmt.Errorf("pagesupplier: byteCount must be positive, got %d", byteCount)
	}
	region, err := syscall.Mmap(
		-1, 0, byteCount,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANON,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return region, nil
}

func (s *OSSupplier) FreeMemory(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	if err := syscall.Munmap(region); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
