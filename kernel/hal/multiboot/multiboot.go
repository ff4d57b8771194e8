// Package multiboot parses the boot information block that a multiboot2
// compliant boot loader passes to the kernel.
//
// The block is never copied or modified. Load validates its structure once
// and records where the interesting tags live; all other accessors re-derive
// their results from the block itself so they can be called any number of
// times.
package multiboot

import (
	"unsafe"

	"github.com/axiomos/axiomos/kernel"
)

type tagType uint32

// nolint
const (
	tagMbSectionEnd tagType = iota
	tagBootCmdLine
	tagBootLoaderName
	tagModules
	tagBasicMemoryInfo
	tagBiosBootDevice
	tagMemoryMap
	tagVbeInfo
	tagFramebufferInfo
	tagElfSymbols
	tagApmTable
)

const (
	infoHeaderSize = 8
	tagHeaderSize  = 8

	// Each tag starts at an 8-byte aligned offset.
	tagAlignment = 8

	mmapHeaderSize  = 8
	memoryAreaSize  = 24
	elfHeaderSize   = 12
	elf32HeaderSize = 40
	elf64HeaderSize = 64
)

var (
	// ErrMalformedBootInfo is returned by Load when the block address or
	// its header cannot possibly describe a valid boot information block.
	ErrMalformedBootInfo = &kernel.Error{Module: "multiboot", Message: "malformed boot information block"}

	// ErrMalformedTag is returned by Load when a tag extends past the end
	// of the block or its payload is inconsistent.
	ErrMalformedTag = &kernel.Error{Module: "multiboot", Message: "malformed tag in boot information block"}

	// ErrMissingMemoryMapTag reports that the boot loader did not supply a
	// memory map.
	ErrMissingMemoryMapTag = &kernel.Error{Module: "multiboot", Message: "memory map tag not present"}

	// ErrMissingElfSectionsTag reports that the boot loader did not supply
	// the kernel's ELF section headers.
	ErrMissingElfSectionsTag = &kernel.Error{Module: "multiboot", Message: "ELF sections tag not present"}
)

// info describes the multiboot info section header.
type info struct {
	// Total size of multiboot info section.
	totalSize uint32

	// Always set to zero; reserved for future use
	reserved uint32
}

// tagHeader describes the header that precedes each tag.
type tagHeader struct {
	// The type of the tag
	tagType tagType

	// The size of the tag including the header but *not* including any
	// padding.
	size uint32
}

// mmapHeader describes the header that precedes the memory map entries.
type mmapHeader struct {
	// The size of each entry.
	entrySize uint32

	// The version of the entries that follow.
	entryVersion uint32
}

// tagPayload locates the payload of a tag inside the block. A zero addr
// means that the tag is not present.
type tagPayload struct {
	addr uintptr
	size uint32
}

// BootInfo provides access to a validated boot information block.
type BootInfo struct {
	addr      uintptr
	totalSize uint32

	memoryMap      tagPayload
	elfSections    tagPayload
	cmdLine        tagPayload
	bootLoaderName tagPayload
}

// Load validates the boot information block at addr and returns a BootInfo
// for querying it. Every tag is visited exactly once; the walk stops at the
// end tag or when the bound declared by the block header is reached. Only the
// first instance of each recognized tag is used.
func Load(addr uintptr) (BootInfo, *kernel.Error) {
	if addr == 0 || addr&(tagAlignment-1) != 0 {
		return BootInfo{}, ErrMalformedBootInfo
	}

	hdr := (*info)(unsafe.Pointer(addr))
	if hdr.totalSize < infoHeaderSize+tagHeaderSize {
		return BootInfo{}, ErrMalformedBootInfo
	}

	bi := BootInfo{addr: addr, totalSize: hdr.totalSize}

	var (
		endPtr = addr + uintptr(hdr.totalSize)
		curPtr = addr + infoHeaderSize
	)

	for curPtr < endPtr {
		if endPtr-curPtr < tagHeaderSize {
			return BootInfo{}, ErrMalformedTag
		}

		tag := (*tagHeader)(unsafe.Pointer(curPtr))
		if tag.size < tagHeaderSize || uintptr(tag.size) > endPtr-curPtr {
			return BootInfo{}, ErrMalformedTag
		}

		if tag.tagType == tagMbSectionEnd {
			break
		}

		payload := tagPayload{addr: curPtr + tagHeaderSize, size: tag.size - tagHeaderSize}
		switch tag.tagType {
		case tagMemoryMap:
			if !validMemoryMap(payload) {
				return BootInfo{}, ErrMalformedTag
			}
			setOnce(&bi.memoryMap, payload)
		case tagElfSymbols:
			if !validElfSections(payload) {
				return BootInfo{}, ErrMalformedTag
			}
			setOnce(&bi.elfSections, payload)
		case tagBootCmdLine:
			setOnce(&bi.cmdLine, payload)
		case tagBootLoaderName:
			setOnce(&bi.bootLoaderName, payload)
		}

		curPtr += alignTagSize(tag.size)
	}

	return bi, nil
}

func setOnce(dst *tagPayload, payload tagPayload) {
	if dst.addr == 0 {
		*dst = payload
	}
}

func alignTagSize(size uint32) uintptr {
	return (uintptr(size) + tagAlignment - 1) &^ (tagAlignment - 1)
}

func validMemoryMap(payload tagPayload) bool {
	if payload.size < mmapHeaderSize {
		return false
	}

	return (*mmapHeader)(unsafe.Pointer(payload.addr)).entrySize >= memoryAreaSize
}

func validElfSections(payload tagPayload) bool {
	if payload.size < elfHeaderSize {
		return false
	}

	num, entSize := load32(payload.addr), load32(payload.addr+4)
	if entSize < elf32HeaderSize {
		return false
	}

	return uint64(num)*uint64(entSize) <= uint64(payload.size-elfHeaderSize)
}

// TotalSize returns the size of the boot information block in bytes.
func (bi *BootInfo) TotalSize() uint32 {
	return bi.totalSize
}

// MemoryMap returns an iterator over the memory areas reported by the boot
// loader in the order they are stored. The second return value is false if
// the block does not contain a memory map.
func (bi *BootInfo) MemoryMap() (MemoryAreaIterator, bool) {
	if bi.memoryMap.addr == 0 {
		return MemoryAreaIterator{}, false
	}

	hdr := (*mmapHeader)(unsafe.Pointer(bi.memoryMap.addr))
	entries := uintptr(bi.memoryMap.size-mmapHeaderSize) / uintptr(hdr.entrySize)
	start := bi.memoryMap.addr + mmapHeaderSize

	return MemoryAreaIterator{
		curPtr:    start,
		endPtr:    start + entries*uintptr(hdr.entrySize),
		entrySize: uintptr(hdr.entrySize),
	}, true
}

// ElfSections returns an iterator over the section headers of the loaded
// kernel image. Unused (SHT_NULL) section slots are skipped. The second
// return value is false if the block does not contain an ELF sections tag.
func (bi *BootInfo) ElfSections() (ElfSectionIterator, bool) {
	if bi.elfSections.addr == 0 {
		return ElfSectionIterator{}, false
	}

	var (
		num     = uintptr(load32(bi.elfSections.addr))
		entSize = uintptr(load32(bi.elfSections.addr + 4))
		start   = bi.elfSections.addr + elfHeaderSize
	)

	return ElfSectionIterator{
		curPtr:  start,
		endPtr:  start + num*entSize,
		entSize: entSize,
		elf64:   entSize >= elf64HeaderSize,
	}, true
}

// CommandLine returns the kernel command line passed by the boot loader.
func (bi *BootInfo) CommandLine() (string, bool) {
	return bi.cmdLine.str()
}

// BootLoaderName returns the name of the boot loader that started the kernel.
func (bi *BootInfo) BootLoaderName() (string, bool) {
	return bi.bootLoaderName.str()
}

// CmdLineValue looks up key in the kernel command line. The command line is
// a space-separated list of "key=value" pairs; a bare "key" maps to itself.
// The returned string aliases the boot information block and no memory is
// allocated.
func (bi *BootInfo) CmdLineValue(key string) (string, bool) {
	cmdLine, ok := bi.CommandLine()
	if !ok || key == "" {
		return "", false
	}

	for start := 0; start < len(cmdLine); {
		end := start
		for end < len(cmdLine) && cmdLine[end] != ' ' {
			end++
		}

		if token := cmdLine[start:end]; token != "" {
			name, value := token, token
			for i := 0; i < len(token); i++ {
				if token[i] == '=' {
					name, value = token[:i], token[i+1:]
					break
				}
			}

			if name == key {
				return value, true
			}
		}

		start = end + 1
	}

	return "", false
}

// str interprets the payload as a NUL-terminated string.
func (p tagPayload) str() (string, bool) {
	if p.addr == 0 {
		return "", false
	}

	var n uint32
	for n < p.size && *(*byte)(unsafe.Pointer(p.addr + uintptr(n))) != 0 {
		n++
	}

	if n == 0 {
		return "", true
	}

	return unsafe.String((*byte)(unsafe.Pointer(p.addr)), n), true
}

// load32 reads a little-endian uint32 from a possibly unaligned address.
func load32(addr uintptr) uint32 {
	b := (*[4]byte)(unsafe.Pointer(addr))
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// load64 reads a little-endian uint64 from a possibly unaligned address.
func load64(addr uintptr) uint64 {
	return uint64(load32(addr)) | uint64(load32(addr+4))<<32
}
