// Package mmio models memory-mapped device memory. The contents of a device
// region change, or cause changes, outside of anything the compiler can see,
// so every access goes through an accessor that the compiler can neither
// inline, reorder across, merge with a neighbouring access nor drop.
package mmio

import "unsafe"

// cellSize is the size in bytes of a single 16-bit device cell.
const cellSize = 2

// Region is a handle to a run of 16-bit device cells starting at a fixed
// physical address. A Region is created once, by the driver that owns the
// device, and must not be duplicated: a second Region over the same address
// would let two writers alias the hardware.
type Region struct {
	base  uintptr
	cells int
}

// Map returns a Region covering cells 16-bit cells starting at physAddr.
func Map(physAddr uintptr, cells int) Region {
	if physAddr == 0 || cells < 0 {
		return Region{}
	}

	return Region{base: physAddr, cells: cells}
}

// Len returns the number of cells in the region.
func (r Region) Len() int {
	return r.cells
}

// Load16 reads the cell at index. Reads outside the region return 0.
func (r Region) Load16(index int) uint16 {
	if index < 0 || index >= r.cells {
		return 0
	}

	return load16(r.base + uintptr(index)*cellSize)
}

// Store16 writes val to the cell at index. Writes outside the region are
// ignored.
func (r Region) Store16(index int, val uint16) {
	if index < 0 || index >= r.cells {
		return
	}

	store16(r.base+uintptr(index)*cellSize, val)
}

//go:noinline
//go:nosplit
func load16(addr uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(addr))
}

//go:noinline
//go:nosplit
func store16(addr uintptr, val uint16) {
	*(*uint16)(unsafe.Pointer(addr)) = val
}
