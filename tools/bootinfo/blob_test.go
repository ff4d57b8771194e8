package main

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomos/axiomos/kernel/hal/multiboot"
)

func testBlobConfig() BlobConfig {
	return BlobConfig{
		CommandLine:    "consoleFg=white quiet",
		BootLoaderName: "bootinfo test",
		MemoryMap: MemoryMapConfig{
			EntrySize: 24,
			Areas: []AreaConfig{
				{Base: 0x0, Length: 0x9fc00, Type: 1},
				{Base: 0x100000, Length: 0x7ee0000, Type: 1},
				{Base: 0xfffc0000, Length: 0x40000, Type: 2},
			},
		},
		ElfSections: ElfSectionsConfig{
			Class: 64,
			Sections: []SectionConfig{
				{},
				{NameIndex: 1, Type: 1, Flags: 0x6, Address: 0x100000, Offset: 0x1000, Size: 0x41a87, AddrAlign: 0x1000},
				{NameIndex: 7, Type: 8, Flags: 0x3, Address: 0x180000, Offset: 0x43000, Size: 0x13db0, AddrAlign: 0x20},
			},
		},
	}
}

func loadBlob(t *testing.T, data []byte) multiboot.BootInfo {
	t.Helper()

	block := alignedCopy(data)
	info, err := multiboot.Load(uintptr(unsafe.Pointer(&block[0])))
	require.Nil(t, err, "kernel parser rejected the encoded block")
	return info
}

func TestEncodeBlobRoundTrip(t *testing.T) {
	for _, class := range []int{32, 64} {
		cfg := testBlobConfig()
		cfg.ElfSections.Class = class

		data := encodeBlob(cfg)
		require.Zero(t, len(data)%8, "block size must be a multiple of 8")

		info := loadBlob(t, data)
		assert.Equal(t, uint32(len(data)), info.TotalSize())

		cmdLine, ok := info.CommandLine()
		assert.True(t, ok)
		assert.Equal(t, cfg.CommandLine, cmdLine)

		name, ok := info.BootLoaderName()
		assert.True(t, ok)
		assert.Equal(t, cfg.BootLoaderName, name)

		areas, ok := info.MemoryMap()
		require.True(t, ok, "expected a memory map")
		for i, exp := range cfg.MemoryMap.Areas {
			area, ok := areas.Next()
			require.True(t, ok, "missing area %d", i)
			assert.Equal(t, exp.Base, area.BaseAddress)
			assert.Equal(t, exp.Length, area.Length)
			assert.Equal(t, multiboot.MemoryAreaType(exp.Type), area.Type)
		}
		_, ok = areas.Next()
		assert.False(t, ok, "expected exactly %d areas", len(cfg.MemoryMap.Areas))

		sections, ok := info.ElfSections()
		require.True(t, ok, "expected ELF sections")
		// The first, unused, section is skipped by the parser.
		for _, exp := range cfg.ElfSections.Sections[1:] {
			sec, ok := sections.Next()
			require.True(t, ok)
			assert.Equal(t, exp.NameIndex, sec.NameIndex)
			assert.Equal(t, multiboot.ElfSectionType(exp.Type), sec.Type)
			assert.Equal(t, multiboot.ElfSectionFlag(exp.Flags), sec.Flags)
			assert.Equal(t, exp.Address, sec.Address)
			assert.Equal(t, exp.Offset, sec.Offset)
			assert.Equal(t, exp.Size, sec.Size)
			assert.Equal(t, exp.AddrAlign, sec.AddrAlign)
		}
		_, ok = sections.Next()
		assert.False(t, ok)
	}
}

func TestEncodeBlobOmittedTags(t *testing.T) {
	cfg := BlobConfig{
		MemoryMap:   MemoryMapConfig{EntrySize: 24, Areas: []AreaConfig{{Base: 0x100000, Length: 0x1000, Type: 1}}},
		ElfSections: ElfSectionsConfig{Omit: true, Class: 64},
	}

	data := encodeBlob(cfg)
	assert.Len(t, data, 56)

	info := loadBlob(t, data)

	_, ok := info.ElfSections()
	assert.False(t, ok)

	_, ok = info.CommandLine()
	assert.False(t, ok)

	cfg.MemoryMap.Omit = true
	info = loadBlob(t, encodeBlob(cfg))
	_, ok = info.MemoryMap()
	assert.False(t, ok)
}

func TestEncodeBlobWideEntries(t *testing.T) {
	cfg := testBlobConfig()
	cfg.MemoryMap.EntrySize = 32

	info := loadBlob(t, encodeBlob(cfg))
	areas, ok := info.MemoryMap()
	require.True(t, ok)

	var count int
	for area, ok := areas.Next(); ok; area, ok = areas.Next() {
		assert.Equal(t, cfg.MemoryMap.Areas[count].Base, area.BaseAddress)
		count++
	}
	assert.Equal(t, len(cfg.MemoryMap.Areas), count)
}
