// Package console provides drivers for the character grids that serve as the
// kernel's physical consoles.
package console

// Attr defines a color attribute. The low nibble selects the foreground
// color and the high nibble selects the background color.
type Attr uint8

// The 16 colors supported by EGA-compatible text consoles.
const (
	Black Attr = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	Grey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	LightBrown
	White
)

var colorNames = [...]string{
	"black",
	"blue",
	"green",
	"cyan",
	"red",
	"magenta",
	"brown",
	"lightgrey",
	"grey",
	"lightblue",
	"lightgreen",
	"lightcyan",
	"lightred",
	"lightmagenta",
	"lightbrown",
	"white",
}

// MakeAttr packs a foreground and a background color into an attribute.
func MakeAttr(fg, bg Attr) Attr {
	return (bg << 4) | (fg & 0xF)
}

// Fg returns the foreground color of the attribute.
func (a Attr) Fg() Attr {
	return a & 0xF
}

// Bg returns the background color of the attribute.
func (a Attr) Bg() Attr {
	return a >> 4
}

// ColorByName looks up one of the 16 console colors by its lower-case name
// (e.g. "lightgrey"). It does not allocate.
func ColorByName(name string) (Attr, bool) {
	for index, colorName := range colorNames {
		if colorName == name {
			return Attr(index), true
		}
	}

	return Black, false
}

// ColorName returns the name of the foreground color of a, as accepted by
// ColorByName.
func ColorName(a Attr) string {
	return colorNames[a.Fg()]
}

// ScrollDir defines a scroll direction.
type ScrollDir uint8

// The supported list of scroll directions for the console Scroll() calls.
const (
	Up ScrollDir = iota
	Down
)

// The Console interface is implemented by objects that can function as physical consoles.
type Console interface {
	// Dimensions returns the width and height of the console in characters.
	Dimensions() (uint16, uint16)

	// Clear fills the specified rectangular region with blank cells using
	// the supplied attribute.
	Clear(x, y, width, height uint16, attr Attr)

	// Scroll a particular number of lines to the specified direction. The
	// caller is responsible for clearing the region that was scrolled.
	Scroll(dir ScrollDir, lines uint16)

	// Write a char to the specified location.
	Write(ch byte, attr Attr, x, y uint16)

	// Read returns the char and attribute at the specified location.
	Read(x, y uint16) (byte, Attr)
}
