package multiboot

// ElfSectionType defines the type of an ElfSection.
type ElfSectionType uint32

// nolint
const (
	ElfSectionNull ElfSectionType = iota
	ElfSectionProgBits
	ElfSectionSymTab
	ElfSectionStrTab
	ElfSectionRela
	ElfSectionHash
	ElfSectionDynamic
	ElfSectionNote
	ElfSectionNoBits
	ElfSectionRel
	ElfSectionShlib
	ElfSectionDynSym
)

// ElfSectionFlag defines the attribute flags of an ElfSection.
type ElfSectionFlag uint64

const (
	// ElfSectionWritable marks sections with data that is writable at
	// runtime.
	ElfSectionWritable ElfSectionFlag = 1 << iota

	// ElfSectionAllocated marks sections that occupy memory at runtime.
	ElfSectionAllocated

	// ElfSectionExecutable marks sections containing executable code.
	ElfSectionExecutable
)

// Has returns true if all bits in flag are set.
func (f ElfSectionFlag) Has(flag ElfSectionFlag) bool {
	return f&flag == flag
}

// ElfSection describes a section of the loaded kernel image. Section headers
// of 32-bit images are widened to the same representation.
type ElfSection struct {
	// Offset of the section name in the section name string table.
	NameIndex uint32

	Type  ElfSectionType
	Flags ElfSectionFlag

	// The virtual address of the section.
	Address uint64

	// The offset of the section in the image file.
	Offset uint64

	// The size of the section in bytes.
	Size uint64

	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// ElfSectionIterator yields the section headers of an ELF sections tag.
type ElfSectionIterator struct {
	curPtr, endPtr uintptr
	entSize        uintptr
	elf64          bool
}

// Next returns the next used section. The second return value is false once
// all sections have been visited.
func (it *ElfSectionIterator) Next() (ElfSection, bool) {
	for it.curPtr < it.endPtr {
		var sec ElfSection
		if it.elf64 {
			sec = decodeElf64Section(it.curPtr)
		} else {
			sec = decodeElf32Section(it.curPtr)
		}
		it.curPtr += it.entSize

		if sec.Type == ElfSectionNull {
			continue
		}

		return sec, true
	}

	return ElfSection{}, false
}

// The section header array follows a 12-byte tag header so its entries are
// only 4-byte aligned; fields are read through load32/load64.

func decodeElf64Section(ptr uintptr) ElfSection {
	return ElfSection{
		NameIndex: load32(ptr),
		Type:      ElfSectionType(load32(ptr + 4)),
		Flags:     ElfSectionFlag(load64(ptr + 8)),
		Address:   load64(ptr + 16),
		Offset:    load64(ptr + 24),
		Size:      load64(ptr + 32),
		Link:      load32(ptr + 40),
		Info:      load32(ptr + 44),
		AddrAlign: load64(ptr + 48),
		EntSize:   load64(ptr + 56),
	}
}

func decodeElf32Section(ptr uintptr) ElfSection {
	return ElfSection{
		NameIndex: load32(ptr),
		Type:      ElfSectionType(load32(ptr + 4)),
		Flags:     ElfSectionFlag(load32(ptr + 8)),
		Address:   uint64(load32(ptr + 12)),
		Offset:    uint64(load32(ptr + 16)),
		Size:      uint64(load32(ptr + 20)),
		Link:      load32(ptr + 24),
		Info:      load32(ptr + 28),
		AddrAlign: uint64(load32(ptr + 32)),
		EntSize:   uint64(load32(ptr + 36)),
	}
}
