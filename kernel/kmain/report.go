package kmain

import (
	"io"

	"github.com/axiomos/axiomos/kernel"
	"github.com/axiomos/axiomos/kernel/hal/multiboot"
	"github.com/axiomos/axiomos/kernel/kfmt"
)

var reportIndent = kfmt.PrefixWriter{Prefix: []byte("    ")}

// WriteBootReport writes the memory map and the kernel section table
// described by info to w:
//
//	memory address:
//	    start: 0x<base>, length: 0x<length>
//	kernel sections:
//	    addr: 0x<address>, size: 0x<size>, flags: 0x<flags>
//	Hello, AxiomOS!
//
// If the memory map is missing nothing is written. If the ELF sections are
// missing the memory map section is written before the error is returned.
// The caller is responsible for serializing access to w.
func WriteBootReport(w io.Writer, info *multiboot.BootInfo) *kernel.Error {
	areas, ok := info.MemoryMap()
	if !ok {
		return multiboot.ErrMissingMemoryMapTag
	}

	reportIndent.Sink = w

	kfmt.Fprintf(w, "memory address:\n")
	for area, ok := areas.Next(); ok; area, ok = areas.Next() {
		kfmt.Fprintf(&reportIndent, "start: 0x%x, length: 0x%x\n", area.BaseAddress, area.Length)
	}

	sections, ok := info.ElfSections()
	if !ok {
		return multiboot.ErrMissingElfSectionsTag
	}

	kfmt.Fprintf(w, "kernel sections:\n")
	for section, ok := sections.Next(); ok; section, ok = sections.Next() {
		kfmt.Fprintf(&reportIndent, "addr: 0x%x, size: 0x%x, flags: 0x%x\n", section.Address, section.Size, uint64(section.Flags))
	}

	kfmt.Fprintf(w, "Hello, AxiomOS!\n")
	return nil
}
