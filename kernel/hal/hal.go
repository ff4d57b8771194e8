// Package hal owns the hardware that the kernel talks to before any driver
// framework exists: the text-mode console and the terminal layered on top of
// it.
//
// The console is a process-wide singleton. It is initialized the first time
// it is acquired and every access goes through a spinlock, which is also what
// the panic path uses, so diagnostics from concurrent callers never
// interleave mid-line.
package hal

import (
	"github.com/axiomos/axiomos/kernel/driver/tty"
	"github.com/axiomos/axiomos/kernel/driver/video/console"
	"github.com/axiomos/axiomos/kernel/kfmt"
	"github.com/axiomos/axiomos/kernel/sync"
)

var (
	consoleLock  sync.Spinlock
	consoleReady bool

	egaConsole     console.Ega
	activeTerminal tty.Vt

	// The framebuffer location and geometry are overridden by tests.
	fbPhysAddr        = console.EgaFramebufferAddr
	fbWidth, fbHeight = console.EgaWidth, console.EgaHeight
)

// AcquireTerminal spins until the caller has exclusive access to the active
// terminal and returns it. The first successful call maps the framebuffer and
// clears the screen using the default light grey on black attribute.
//
// Callers must invoke ReleaseTerminal when done. Acquiring the terminal twice
// from the same task deadlocks.
func AcquireTerminal() *tty.Vt {
	consoleLock.Acquire()

	if !consoleReady {
		egaConsole.Init(fbWidth, fbHeight, fbPhysAddr)
		activeTerminal.AttachTo(&egaConsole)
		activeTerminal.Clear()
		consoleReady = true
	}

	return &activeTerminal
}

// ReleaseTerminal relinquishes a terminal obtained via AcquireTerminal.
func ReleaseTerminal() {
	consoleLock.Release()
}

// WithTerminal invokes fn while holding the active terminal. The terminal is
// released when fn returns, even if it panics.
func WithTerminal(fn func(*tty.Vt)) {
	term := AcquireTerminal()
	defer ReleaseTerminal()

	fn(term)
}

// terminalSink adapts the terminal singleton to the kfmt.Sink interface.
type terminalSink struct{}

func (terminalSink) Acquire() { AcquireTerminal() }
func (terminalSink) Release() { ReleaseTerminal() }

// Write must only be called between Acquire and Release.
func (terminalSink) Write(p []byte) (int, error) {
	return activeTerminal.Write(p)
}

// TerminalSink returns a kfmt.Sink that writes to the active terminal.
func TerminalSink() kfmt.Sink {
	return terminalSink{}
}
