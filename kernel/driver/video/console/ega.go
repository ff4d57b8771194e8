package console

import "github.com/axiomos/axiomos/kernel/mmio"

const (
	// EgaFramebufferAddr is the physical address of the color text mode
	// framebuffer.
	EgaFramebufferAddr uintptr = 0xB8000

	// EgaWidth and EgaHeight are the dimensions of text mode 0x3.
	EgaWidth  uint16 = 80
	EgaHeight uint16 = 25

	clearChar = byte(' ')
)

// Ega implements an EGA-compatible text console. Each cell of the grid is
// two bytes wide: the ASCII code of the character followed by its color
// attribute. The grid lives in device memory and is only ever accessed
// through an mmio.Region.
type Ega struct {
	width  uint16
	height uint16

	fb mmio.Region
}

// Init maps a width x height grid whose first cell lives at fbPhysAddr.
func (cons *Ega) Init(width, height uint16, fbPhysAddr uintptr) {
	cons.width = width
	cons.height = height
	cons.fb = mmio.Map(fbPhysAddr, int(width)*int(height))
}

// Dimensions returns the console width and height in characters.
func (cons *Ega) Dimensions() (uint16, uint16) {
	return cons.width, cons.height
}

// Clear fills the specified rectangular region with blank cells that use
// attr. The rectangle is clipped to the console dimensions.
func (cons *Ega) Clear(x, y, width, height uint16, attr Attr) {
	if x >= cons.width || y >= cons.height {
		return
	}

	if width > cons.width-x {
		width = cons.width - x
	}
	if height > cons.height-y {
		height = cons.height - y
	}

	blank := makeCell(clearChar, attr)
	for row := y; row < y+height; row++ {
		rowOffset := int(row) * int(cons.width)
		for col := x; col < x+width; col++ {
			cons.fb.Store16(rowOffset+int(col), blank)
		}
	}
}

// Scroll moves the console contents by the specified number of lines. Rows
// are copied one cell at a time as text mode offers no scroll register.
func (cons *Ega) Scroll(dir ScrollDir, lines uint16) {
	if lines == 0 || lines > cons.height {
		return
	}

	var (
		offset = int(lines) * int(cons.width)
		total  = int(cons.height) * int(cons.width)
	)

	switch dir {
	case Up:
		for i := 0; i < total-offset; i++ {
			cons.fb.Store16(i, cons.fb.Load16(i+offset))
		}
	case Down:
		for i := total - 1; i >= offset; i-- {
			cons.fb.Store16(i, cons.fb.Load16(i-offset))
		}
	}
}

// Write a char to the specified location. Writes outside the console are
// ignored.
func (cons *Ega) Write(ch byte, attr Attr, x, y uint16) {
	if x >= cons.width || y >= cons.height {
		return
	}

	cons.fb.Store16(int(y)*int(cons.width)+int(x), makeCell(ch, attr))
}

// Read returns the char and attribute stored at the specified location.
// Reading outside the console returns a zero cell.
func (cons *Ega) Read(x, y uint16) (byte, Attr) {
	if x >= cons.width || y >= cons.height {
		return 0, 0
	}

	cell := cons.fb.Load16(int(y)*int(cons.width) + int(x))
	return byte(cell), Attr(cell >> 8)
}

func makeCell(ch byte, attr Attr) uint16 {
	return uint16(attr)<<8 | uint16(ch)
}
