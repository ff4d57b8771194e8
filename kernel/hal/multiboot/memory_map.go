package multiboot

// MemoryAreaType defines the type of a MemoryArea.
type MemoryAreaType uint32

const (
	// MemAvailable indicates that the memory region is available for use.
	MemAvailable MemoryAreaType = iota + 1

	// MemReserved indicates that the memory region is not available for use.
	MemReserved

	// MemAcpiReclaimable indicates a memory region that holds ACPI info that
	// can be reused by the OS.
	MemAcpiReclaimable

	// MemNvs indicates memory that must be preserved when hibernating.
	MemNvs

	// MemDefective indicates memory that is occupied by defective RAM
	// modules.
	MemDefective
)

// String implements fmt.Stringer for MemoryAreaType.
func (t MemoryAreaType) String() string {
	switch t {
	case MemAvailable:
		return "available"
	case MemReserved:
		return "reserved"
	case MemAcpiReclaimable:
		return "ACPI (reclaimable)"
	case MemNvs:
		return "NVS"
	case MemDefective:
		return "defective"
	default:
		return "unknown"
	}
}

// MemoryArea describes a memory region, namely its physical address, its
// length and its type. Types not known to this package are reported as is.
type MemoryArea struct {
	// The physical address for this memory region.
	BaseAddress uint64

	// The length of the memory region.
	Length uint64

	// The type of this entry.
	Type MemoryAreaType
}

// MemoryAreaIterator yields the entries of a memory map tag.
type MemoryAreaIterator struct {
	curPtr, endPtr uintptr
	entrySize      uintptr
}

// Next returns the next memory area. The second return value is false once
// all areas have been visited.
func (it *MemoryAreaIterator) Next() (MemoryArea, bool) {
	if it.curPtr >= it.endPtr {
		return MemoryArea{}, false
	}

	area := MemoryArea{
		BaseAddress: load64(it.curPtr),
		Length:      load64(it.curPtr + 8),
		Type:        MemoryAreaType(load32(it.curPtr + 16)),
	}
	it.curPtr += it.entrySize

	return area, true
}
