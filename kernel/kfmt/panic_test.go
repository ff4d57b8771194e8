package kfmt

import (
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/axiomos/axiomos/kernel"
	"github.com/axiomos/axiomos/kernel/driver/tty"
	"github.com/axiomos/axiomos/kernel/driver/video/console"
)

func TestPanic(t *testing.T) {
	defer func() {
		cpuHaltFn = origCPUHaltFn
		outputSink = nil
		errRuntimePanic.Message = "unknown cause"
	}()

	var cpuHaltCalled bool
	cpuHaltFn = func() {
		cpuHaltCalled = true
	}

	specs := []struct {
		name string
		arg  interface{}
		exp  string
	}{
		{
			"with *kernel.Error",
			&kernel.Error{Module: "test", Message: "panic test"},
			"\n-----------------------------------\n[test] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"with error",
			errors.New("go error"),
			"\n-----------------------------------\n[rt] unrecoverable error: go error\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"with string",
			"string error",
			"\n-----------------------------------\n[rt] unrecoverable error: string error\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
		{
			"without error",
			nil,
			"\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n",
		},
	}

	for _, spec := range specs {
		t.Run(spec.name, func(t *testing.T) {
			cpuHaltCalled = false
			sink := &bufferSink{}
			SetOutputSink(sink)

			Panic(spec.arg)

			if got := sink.String(); got != spec.exp {
				t.Fatalf("expected to get:\n%q\ngot:\n%q", spec.exp, got)
			}

			if !cpuHaltCalled {
				t.Fatal("expected cpu.Halt() to be called by Panic")
			}

			if sink.held {
				t.Fatal("expected Panic to release the output sink")
			}
		})
	}
}

// vtSink renders Printf output on a text console backed by a plain memory
// buffer.
type vtSink struct {
	tty.Vt
	fb []uint16
}

func (s *vtSink) Acquire() {}
func (s *vtSink) Release() {}

func newVtSink(width, height uint16) (*vtSink, *console.Ega) {
	s := &vtSink{fb: make([]uint16, int(width)*int(height))}
	cons := &console.Ega{}
	cons.Init(width, height, uintptr(unsafe.Pointer(&s.fb[0])))
	s.AttachTo(cons)
	s.Clear()
	return s, cons
}

func screenText(cons *console.Ega) string {
	var (
		sb   strings.Builder
		w, h = cons.Dimensions()
	)

	for y := uint16(0); y < h; y++ {
		var row []byte
		for x := uint16(0); x < w; x++ {
			ch, _ := cons.Read(x, y)
			row = append(row, ch)
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func TestPanicOnConsole(t *testing.T) {
	defer func() {
		cpuHaltFn = origCPUHaltFn
		outputSink = nil
	}()

	cpuHaltFn = func() {}

	sink, cons := newVtSink(40, 8)
	SetOutputSink(sink)

	Panic(&kernel.Error{Module: "test", Message: "panic test"})

	text := screenText(cons)
	for _, exp := range []string{
		"[test] unrecoverable error: panic test",
		"*** kernel panic: system halted ***",
		"-----------------------------------",
	} {
		if !strings.Contains(text, exp) {
			t.Errorf("expected screen to contain %q; screen contents:\n%s", exp, text)
		}
	}
}

var origCPUHaltFn = cpuHaltFn

func TestPanicWithoutSink(t *testing.T) {
	defer func() {
		cpuHaltFn = origCPUHaltFn
		earlyPrintBuffer.rIndex, earlyPrintBuffer.wIndex = 0, 0
	}()

	cpuHaltFn = func() {}
	outputSink = nil
	earlyPrintBuffer.rIndex, earlyPrintBuffer.wIndex = 0, 0

	Panic(&kernel.Error{Module: "early", Message: "no console"})

	// The banner is kept in the early buffer and shows up once a sink
	// is installed.
	sink := &bufferSink{}
	SetOutputSink(sink)
	defer SetOutputSink(nil)

	if !strings.Contains(sink.String(), "[early] unrecoverable error: no console\n") {
		t.Fatalf("expected early panic output to be replayed; got %q", sink.String())
	}
}
