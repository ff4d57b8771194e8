// Package tty implements the terminals that translate a stream of bytes into
// updates of a console grid.
package tty

import "github.com/axiomos/axiomos/kernel/driver/video/console"

const (
	// DefaultFg and DefaultBg define the colors used by a freshly cleared
	// terminal: light grey text on a black background.
	DefaultFg = console.LightGrey
	DefaultBg = console.Black
)

// Vt implements a line-oriented terminal. Output always lands on the last
// row of the attached console: a newline, or running past the last column,
// scrolls the whole grid up by one row. Vt performs no locking; callers
// serialize access to a shared Vt.
type Vt struct {
	cons console.Console

	width  uint16
	height uint16

	curX    uint16
	curAttr console.Attr
}

// AttachTo links the terminal with the specified console device. The
// terminal adopts the console dimensions and the default attribute but does
// not modify the console contents.
func (t *Vt) AttachTo(cons console.Console) {
	t.cons = cons
	t.width, t.height = cons.Dimensions()
	t.curX = 0
	t.curAttr = console.MakeAttr(DefaultFg, DefaultBg)
}

// Dimensions returns the width and height of the terminal in characters.
func (t *Vt) Dimensions() (uint16, uint16) {
	return t.width, t.height
}

// Clear blanks the whole console using the default attribute and resets the
// cursor to the start of the last row.
func (t *Vt) Clear() {
	t.curAttr = console.MakeAttr(DefaultFg, DefaultBg)
	t.cons.Clear(0, 0, t.width, t.height, t.curAttr)
	t.curX = 0
}

// Column returns the cursor column.
func (t *Vt) Column() uint16 {
	return t.curX
}

// Attribute returns the attribute applied to subsequent writes.
func (t *Vt) Attribute() console.Attr {
	return t.curAttr
}

// SetAttribute changes the colors used by subsequent writes. Cells that have
// already been written keep their colors.
func (t *Vt) SetAttribute(fg, bg console.Attr) {
	t.curAttr = console.MakeAttr(fg, bg)
}

// WriteByte implements io.ByteWriter.
func (t *Vt) WriteByte(b byte) error {
	if b == '\n' {
		t.lf()
		return nil
	}

	// The column check must precede the write so the last column is never
	// overwritten without scrolling first.
	if t.curX >= t.width {
		t.lf()
	}

	t.cons.Write(b, t.curAttr, t.curX, t.height-1)
	t.curX++
	if t.curX == t.width {
		t.lf()
	}

	return nil
}

// Write implements io.Writer. Bytes are passed to the console as-is.
func (t *Vt) Write(data []byte) (int, error) {
	for _, b := range data {
		_ = t.WriteByte(b)
	}

	return len(data), nil
}

// WriteString implements io.StringWriter.
func (t *Vt) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		_ = t.WriteByte(s[i])
	}

	return len(s), nil
}

// lf scrolls the console contents up by one line, blanks the last row with
// the current attribute and moves the cursor to its first column.
func (t *Vt) lf() {
	t.cons.Scroll(console.Up, 1)
	t.cons.Clear(0, t.height-1, t.width, 1, t.curAttr)
	t.curX = 0
}
