package main

import (
	"bytes"
	"encoding/binary"
)

// Tag types as assigned by the multiboot2 specification.
const (
	tagEnd            uint32 = 0
	tagCommandLine    uint32 = 1
	tagBootLoaderName uint32 = 2
	tagMemoryMap      uint32 = 6
	tagElfSections    uint32 = 9
)

// blobWriter accumulates 8-byte aligned tags.
type blobWriter struct {
	buf bytes.Buffer
}

func (w *blobWriter) tag(tagType uint32, payload []byte) {
	w.u32(tagType)
	w.u32(uint32(8 + len(payload)))
	w.buf.Write(payload)

	for w.buf.Len()%8 != 0 {
		w.buf.WriteByte(0)
	}
}

func (w *blobWriter) u32(v uint32) {
	_ = binary.Write(&w.buf, binary.LittleEndian, v)
}

// encodeBlob serializes cfg into the multiboot2 boot information layout:
// an 8-byte header followed by the command line, boot loader name, memory
// map and ELF section tags and the terminating end tag.
func encodeBlob(cfg BlobConfig) []byte {
	var w blobWriter

	if cfg.CommandLine != "" {
		w.tag(tagCommandLine, append([]byte(cfg.CommandLine), 0))
	}

	if cfg.BootLoaderName != "" {
		w.tag(tagBootLoaderName, append([]byte(cfg.BootLoaderName), 0))
	}

	if !cfg.MemoryMap.Omit {
		w.tag(tagMemoryMap, encodeMemoryMap(cfg.MemoryMap))
	}

	if !cfg.ElfSections.Omit {
		w.tag(tagElfSections, encodeElfSections(cfg.ElfSections))
	}

	w.tag(tagEnd, nil)

	out := make([]byte, 8, 8+w.buf.Len())
	binary.LittleEndian.PutUint32(out, uint32(8+w.buf.Len()))
	return append(out, w.buf.Bytes()...)
}

func encodeMemoryMap(cfg MemoryMapConfig) []byte {
	payload := make([]byte, 8, 8+int(cfg.EntrySize)*len(cfg.Areas))
	binary.LittleEndian.PutUint32(payload[0:], cfg.EntrySize)

	for _, area := range cfg.Areas {
		entry := make([]byte, cfg.EntrySize)
		binary.LittleEndian.PutUint64(entry[0:], area.Base)
		binary.LittleEndian.PutUint64(entry[8:], area.Length)
		binary.LittleEndian.PutUint32(entry[16:], area.Type)
		payload = append(payload, entry...)
	}

	return payload
}

func encodeElfSections(cfg ElfSectionsConfig) []byte {
	entSize := 64
	if cfg.Class == 32 {
		entSize = 40
	}

	payload := make([]byte, 12, 12+entSize*len(cfg.Sections))
	binary.LittleEndian.PutUint32(payload[0:], uint32(len(cfg.Sections)))
	binary.LittleEndian.PutUint32(payload[4:], uint32(entSize))

	for _, sec := range cfg.Sections {
		entry := make([]byte, entSize)
		binary.LittleEndian.PutUint32(entry[0:], sec.NameIndex)
		binary.LittleEndian.PutUint32(entry[4:], sec.Type)

		if cfg.Class == 32 {
			binary.LittleEndian.PutUint32(entry[8:], uint32(sec.Flags))
			binary.LittleEndian.PutUint32(entry[12:], uint32(sec.Address))
			binary.LittleEndian.PutUint32(entry[16:], uint32(sec.Offset))
			binary.LittleEndian.PutUint32(entry[20:], uint32(sec.Size))
			binary.LittleEndian.PutUint32(entry[32:], uint32(sec.AddrAlign))
			binary.LittleEndian.PutUint32(entry[36:], uint32(sec.EntSize))
		} else {
			binary.LittleEndian.PutUint64(entry[8:], sec.Flags)
			binary.LittleEndian.PutUint64(entry[16:], sec.Address)
			binary.LittleEndian.PutUint64(entry[24:], sec.Offset)
			binary.LittleEndian.PutUint64(entry[32:], sec.Size)
			binary.LittleEndian.PutUint64(entry[48:], sec.AddrAlign)
			binary.LittleEndian.PutUint64(entry[56:], sec.EntSize)
		}

		payload = append(payload, entry...)
	}

	return payload
}
