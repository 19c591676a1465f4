package vos

import (
	"io"
	"os"
)

// Streams is a VIO over arbitrary readers and writers.
type Streams struct {
	In  io.ReadCloser
	Out io.WriteCloser
	Err io.WriteCloser
}

var _ VIO = (*Streams)(nil)

// NewStreams wraps the given readers and writers. A nil stdin reads as closed
// and nil outputs discard what is written to them. Closing a stream only
// closes the underlying value if it is itself a closer.
func NewStreams(stdin io.Reader, stdout, stderr io.Writer) *Streams {
	return &Streams{
		In:  readCloser(stdin),
		Out: writeCloser(stdout),
		Err: writeCloser(stderr),
	}
}

// HostStreams returns the standard streams of the running process. Closing
// them leaves the files open so a builtin can't take the terminal away from
// the shell.
func HostStreams() *Streams {
	return &Streams{
		In:  io.NopCloser(os.Stdin),
		Out: nopCloser{os.Stdout},
		Err: nopCloser{os.Stderr},
	}
}

// NullStreams is the /dev/null of VIO.
func NullStreams() *Streams {
	return NewStreams(nil, nil, nil)
}

func (s *Streams) Stdin() io.ReadCloser   { return s.In }
func (s *Streams) Stdout() io.WriteCloser { return s.Out }
func (s *Streams) Stderr() io.WriteCloser { return s.Err }

func readCloser(r io.Reader) io.ReadCloser {
	switch v := r.(type) {
	case nil:
		return closedReader{}
	case io.ReadCloser:
		return v
	default:
		return io.NopCloser(r)
	}
}

func writeCloser(w io.Writer) io.WriteCloser {
	switch v := w.(type) {
	case nil:
		return nopCloser{io.Discard}
	case io.WriteCloser:
		return v
	default:
		return nopCloser{w}
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type closedReader struct{}

func (closedReader) Read([]byte) (int, error) { return 0, os.ErrClosed }
func (closedReader) Close() error             { return nil }
