package tty

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/axiomos/axiomos/kernel/driver/video/console"
)

func mockVt(width, height uint16) (*Vt, []uint16) {
	fb := make([]uint16, int(width)*int(height))
	var cons console.Ega
	cons.Init(width, height, uintptr(unsafe.Pointer(&fb[0])))

	var vt Vt
	vt.AttachTo(&cons)
	vt.Clear()

	return &vt, fb
}

func rowText(fb []uint16, width uint16, row int) string {
	var sb strings.Builder
	for x := 0; x < int(width); x++ {
		sb.WriteByte(byte(fb[row*int(width)+x]))
	}
	return sb.String()
}

func TestVtClear(t *testing.T) {
	vt, fb := mockVt(80, 25)
	vt.SetAttribute(console.White, console.Red)
	vt.WriteString("foo")
	vt.Clear()

	expCell := uint16(console.MakeAttr(DefaultFg, DefaultBg))<<8 | ' '
	for i, cell := range fb {
		if cell != expCell {
			t.Fatalf("expected cell %d to be 0x%x after Clear(); got 0x%x", i, expCell, cell)
		}
	}

	if vt.Column() != 0 {
		t.Fatalf("expected cursor column to be reset to 0; got %d", vt.Column())
	}

	if exp := console.MakeAttr(DefaultFg, DefaultBg); vt.Attribute() != exp {
		t.Fatalf("expected Clear() to restore the default attribute 0x%x; got 0x%x", exp, vt.Attribute())
	}
}

func TestVtWriteLastRow(t *testing.T) {
	vt, fb := mockVt(80, 25)
	w, h := vt.Dimensions()

	n, err := vt.WriteString("hello")
	if err != nil || n != 5 {
		t.Fatalf("expected WriteString to return (5, nil); got (%d, %v)", n, err)
	}

	if got := rowText(fb, w, int(h)-1); !strings.HasPrefix(got, "hello ") {
		t.Fatalf("expected output on the last row; got %q", got)
	}

	if vt.Column() != 5 {
		t.Fatalf("expected cursor column to be 5; got %d", vt.Column())
	}
}

func TestVtWrapInvariant(t *testing.T) {
	specs := []struct {
		width, height uint16
	}{
		{80, 25},
		{40, 10},
		{10, 3},
		{3, 2},
		{1, 1},
	}

	for specIndex, spec := range specs {
		vt, fb := mockVt(spec.width, spec.height)

		line := make([]byte, spec.width)
		for i := range line {
			line[i] = 'a' + byte(i%26)
		}

		vt.Write(line)

		if vt.Column() != 0 {
			t.Errorf("[spec %d] expected cursor column to be 0 after writing %d chars; got %d", specIndex, spec.width, vt.Column())
			continue
		}

		if got := rowText(fb, spec.width, int(spec.height)-1); got != strings.Repeat(" ", int(spec.width)) {
			t.Errorf("[spec %d] expected last row to be blank after wrapping; got %q", specIndex, got)
		}

		if spec.height < 2 {
			continue
		}

		if got := rowText(fb, spec.width, int(spec.height)-2); got != string(line) {
			t.Errorf("[spec %d] expected previous row to contain %q; got %q", specIndex, line, got)
		}
	}
}

func TestVtNewlineScroll(t *testing.T) {
	vt, fb := mockVt(20, 5)
	w, h := vt.Dimensions()

	// Write one labelled line per row; the trailing newline of each line
	// scrolls it off the last row.
	var sb strings.Builder
	for i := 0; i < int(h); i++ {
		sb.WriteString("line-")
		sb.WriteByte('0' + byte(i))
		sb.WriteByte('\n')
	}
	vt.WriteString(sb.String())

	if len(fb) != int(w)*int(h) {
		t.Fatalf("expected grid to keep %d cells; got %d", int(w)*int(h), len(fb))
	}

	for row := 0; row < int(h); row++ {
		if got := rowText(fb, w, row); strings.Contains(got, "line-0") {
			t.Fatalf("expected the first written line to have scrolled off; found it on row %d", row)
		}
	}

	for row := 0; row < int(h)-1; row++ {
		exp := "line-" + string('1'+byte(row))
		if got := strings.TrimRight(rowText(fb, w, row), " "); got != exp {
			t.Errorf("expected row %d to contain %q; got %q", row, exp, got)
		}
	}

	if got := rowText(fb, w, int(h)-1); got != strings.Repeat(" ", int(w)) {
		t.Errorf("expected last row to be blank; got %q", got)
	}
}

func TestVtAttributePersistence(t *testing.T) {
	vt, fb := mockVt(80, 25)
	w, h := vt.Dimensions()
	lastRow := (int(h) - 1) * int(w)

	first := console.MakeAttr(console.LightCyan, console.Black)
	second := console.MakeAttr(console.LightBrown, console.Blue)

	vt.SetAttribute(first.Fg(), first.Bg())
	vt.WriteString("ab")
	vt.SetAttribute(second.Fg(), second.Bg())
	vt.WriteString("c")

	specs := []struct {
		index   int
		expChar byte
		expAttr console.Attr
	}{
		{lastRow, 'a', first},
		{lastRow + 1, 'b', first},
		{lastRow + 2, 'c', second},
	}

	for specIndex, spec := range specs {
		cell := fb[spec.index]
		if ch, attr := byte(cell), console.Attr(cell>>8); ch != spec.expChar || attr != spec.expAttr {
			t.Errorf("[spec %d] expected cell (%q, 0x%x); got (%q, 0x%x)", specIndex, spec.expChar, spec.expAttr, ch, attr)
		}
	}

	// Scrolling moves the cells without repainting them and blanks the new
	// last row using the current attribute.
	vt.WriteByte('\n')
	prevRow := (int(h) - 2) * int(w)
	if attr := console.Attr(fb[prevRow] >> 8); attr != first {
		t.Errorf("expected scrolled cell to keep attribute 0x%x; got 0x%x", first, attr)
	}
	if cell := fb[lastRow]; cell != uint16(second)<<8|' ' {
		t.Errorf("expected new last row to be blanked with attribute 0x%x; got cell 0x%x", second, cell)
	}
}

func TestVtPassThrough(t *testing.T) {
	vt, fb := mockVt(80, 25)
	w, h := vt.Dimensions()

	vt.Write([]byte{0x00, '\r', 0xdb, '\t'})

	lastRow := (int(h) - 1) * int(w)
	for i, exp := range []byte{0x00, '\r', 0xdb, '\t'} {
		if got := byte(fb[lastRow+i]); got != exp {
			t.Errorf("expected byte 0x%x at column %d; got 0x%x", exp, i, got)
		}
	}

	if vt.Column() != 4 {
		t.Fatalf("expected cursor column to be 4; got %d", vt.Column())
	}
}
