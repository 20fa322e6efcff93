// Command arenademo exercises a HeapArena end to end: allocate, write,
// realloc, free, and dump - enough to see the free-size tree and the
// address-order list evolve.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kvassay/heaparena/internal/arena"
	"github.com/kvassay/heaparena/internal/pagesupplier"
)

func main() {
	fmt.Println("Starting HeapArena demo...")

	a := arena.New(pagesupplier.NewOSSupplier(), arena.WithChecksums(true))
	defer a.Release()

	fmt.Println("Arena created successfully!")

	p1, err := a.Allocate(128)
	if err != nil {
		log.Fatalf("Allocate error: %v", err)
	}
	copy(p1.Bytes(), []byte("hello, arena"))
	fmt.Printf("Allocated %d bytes, wrote %q\n", p1.UsedSize(), p1.Bytes())

	p2, err := a.Allocate(64)
	if err != nil {
		log.Fatalf("Allocate error: %v", err)
	}
	fmt.Printf("Allocated a second region of %d bytes\n", p2.UsedSize())

	p1, err = a.Realloc(p1, 256)
	if err != nil {
		log.Fatalf("Realloc error: %v", err)
	}
	fmt.Printf("Reallocated first region to %d bytes, content preserved: %q\n", p1.UsedSize(), p1.Bytes()[:12])

	fmt.Println("\nArena state before freeing:")
	a.Dump(os.Stdout)

	a.Free(p2)
	a.Free(p1)

	fmt.Println("\nArena state after freeing everything:")
	a.Dump(os.Stdout)

	fmt.Printf("\nallocated_size=%d free_size=%d\n", a.AllocatedSize(), a.FreeSize())
	fmt.Println("HeapArena demo completed successfully!")
}
