package kfmt

import (
	"io"

	"github.com/axiomos/axiomos/kernel"
	"github.com/axiomos/axiomos/kernel/cpu"
)

var (
	// cpuHaltFn is mocked by tests and is automatically inlined by the compiler.
	cpuHaltFn = cpu.Halt

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic outputs the supplied error (if not nil) to the active output sink and
// halts the CPU. Panic is the kernel's terminal state: calls to Panic never
// return. Panic also works as a redirection target for calls to panic()
// (resolved via runtime.gopanic).
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if sink := outputSink; sink != nil {
		sink.Acquire()
		FprintPanic(sink, err)
		sink.Release()
	} else {
		FprintPanic(nil, err)
	}

	cpuHaltFn()
}

// FprintPanic writes the banner that Panic emits for err to w. A nil err
// only prints the halt notice. A nil writer selects the early ring buffer.
func FprintPanic(w io.Writer, err *kernel.Error) {
	Fprintf(w, "\n-----------------------------------\n")
	if err != nil {
		Fprintf(w, "[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Fprintf(w, "*** kernel panic: system halted ***")
	Fprintf(w, "\n-----------------------------------\n")
}

// panicString serves as a redirect target for runtime.throw
//
//go:redirect-from runtime.throw
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}
