package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line. The kernel uses it for "[module] "
// log prefixes and for indenting report entries.
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	bytesAfterPrefix int
}

// Write writes len(p) bytes from p to the underlying data stream and returns
// back the number of bytes written. The injected prefix is not included in
// the returned count. The prefix for a line is emitted lazily, when its first
// byte is written, so a trailing line feed never produces a dangling prefix.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var (
		written    int
		startIndex int
	)

	for curIndex := 0; curIndex < len(p); curIndex++ {
		if w.bytesAfterPrefix == 0 && curIndex == startIndex {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
		}

		if p[curIndex] != '\n' {
			w.bytesAfterPrefix++
			continue
		}

		n, err := w.Sink.Write(p[startIndex : curIndex+1])
		written += n
		if err != nil {
			return written, err
		}

		w.bytesAfterPrefix = 0
		startIndex = curIndex + 1
	}

	if startIndex < len(p) {
		n, err := w.Sink.Write(p[startIndex:])
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
