package kfmt

import "io"

// Sink is an output device that Printf can claim for the duration of a call.
// Acquire must block until the caller has exclusive access to the device and
// Release must relinquish it.
type Sink interface {
	io.Writer

	Acquire()
	Release()
}

var (
	// earlyPrintBuffer is a ring buffer that stores Printf output before
	// an output sink is installed.
	earlyPrintBuffer ringBuffer

	// flushBuf is used for replaying earlyPrintBuffer into a new sink.
	flushBuf [64]byte

	// outputSink receives all Printf output. If set to nil, output is
	// redirected to the earlyPrintBuffer.
	outputSink Sink
)

// SetOutputSink sets the default target for calls to Printf to s and replays
// any data accumulated in the early print buffer into it. Passing nil
// detaches the current sink.
func SetOutputSink(s Sink) {
	outputSink = s
	if s == nil {
		return
	}

	s.Acquire()
	defer s.Release()

	// io.Copy would allocate a transfer buffer.
	for {
		n, err := earlyPrintBuffer.Read(flushBuf[:])
		if err != nil {
			return
		}
		doWrite(s, flushBuf[:n])
	}
}
