package kmain

import (
	"github.com/axiomos/axiomos/kernel"
	"github.com/axiomos/axiomos/kernel/cpu"
	"github.com/axiomos/axiomos/kernel/driver/tty"
	"github.com/axiomos/axiomos/kernel/driver/video/console"
	"github.com/axiomos/axiomos/kernel/hal"
	"github.com/axiomos/axiomos/kernel/hal/multiboot"
	"github.com/axiomos/axiomos/kernel/kfmt"
)

var (
	// The following functions are mocked by tests.
	terminalSinkFn    = hal.TerminalSink
	acquireTerminalFn = hal.AcquireTerminal
	releaseTerminalFn = hal.ReleaseTerminal
	loadBootInfoFn    = multiboot.Load
	panicFn           = kfmt.Panic
	haltFn            = cpu.Halt

	// bootLog prefixes log lines emitted while the boot information is
	// processed. Passing a global as an io.Writer does not allocate.
	bootLog = kfmt.PrefixWriter{Prefix: []byte("[boot] ")}
)

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. This function is invoked by the rt0 assembly code after
// switching to long mode and setting up a minimal g0 struct that allows Go
// code to run on the stack allocated by the assembly code.
//
// The rt0 code passes the address of the multiboot info payload provided by
// the bootloader.
//
// Kmain never returns. It either halts the CPU after printing the boot report
// or panics if the boot information cannot be processed.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	sink := terminalSinkFn()
	kfmt.SetOutputSink(sink)

	if err := bootstrap(sink, multibootInfoPtr); err != nil {
		panicFn(err)
		return
	}

	haltFn()
}

// bootstrap parses the boot information and prints the boot report while
// holding the output sink so the report is never interleaved with other
// output.
func bootstrap(sink kfmt.Sink, multibootInfoPtr uintptr) *kernel.Error {
	info, err := loadBootInfoFn(multibootInfoPtr)
	if err != nil {
		return err
	}

	applyConsoleColors(&info, acquireTerminalFn())
	releaseTerminalFn()

	sink.Acquire()
	defer sink.Release()
	return WriteBootReport(sink, &info)
}

// applyConsoleColors overrides the terminal colors with the values of the
// consoleFg and consoleBg boot command line options, if present.
func applyConsoleColors(info *multiboot.BootInfo, term *tty.Vt) {
	bootLog.Sink = term

	fg, bg := term.Attribute().Fg(), term.Attribute().Bg()
	fg = colorOption(info, "consoleFg", fg)
	bg = colorOption(info, "consoleBg", bg)
	term.SetAttribute(fg, bg)
}

func colorOption(info *multiboot.BootInfo, key string, fallback console.Attr) console.Attr {
	name, ok := info.CmdLineValue(key)
	if !ok {
		return fallback
	}

	color, ok := console.ColorByName(name)
	if !ok {
		kfmt.Fprintf(&bootLog, "ignoring unknown %s color: %s\n", key, name)
		return fallback
	}

	return color
}
