// Package lineedit reads lines from a terminal one byte at a time, echoing
// input itself so it can handle tab completion, backspace and recalling the
// previous line with the up arrow.
package lineedit

import (
	"errors"
	"io"
	"unicode/utf8"
)

// MaxLineLength is the longest line the editor buffers, reaching it completes
// the line.
const MaxLineLength = 4095

const (
	keyTab       = 9
	keyNewline   = 10
	keyEOT       = 4
	keyEscape    = 27
	keyBackspace = 127
)

// erase moves the cursor back one cell, blanks it and moves back again.
const erase = "\b \b"

type state int

const (
	stateNormal state = iota
	stateEscape1
	stateEscape2
)

// History holds the previously completed line.
type History struct {
	line string
}

// Save replaces the retained line.
func (h *History) Save(line string) {
	h.line = line
}

// Recall returns the retained line, empty if none was saved.
func (h *History) Recall() string {
	return h.line
}

// Editor reads lines from In, echoing to Out.
type Editor struct {
	In       io.Reader
	Out      io.Writer
	Terminal Terminal
	History  *History
}

// New creates an editor. A nil terminal behaves like NopTerminal.
func New(in io.Reader, out io.Writer, terminal Terminal, history *History) *Editor {
	if terminal == nil {
		terminal = NopTerminal{}
	}
	if history == nil {
		history = &History{}
	}
	return &Editor{In: in, Out: out, Terminal: terminal, History: history}
}

// ReadLine writes the prompt and reads a line. It returns io.EOF when the
// user sends EOT (Ctrl-D) or the input ends with nothing buffered.
func (e *Editor) ReadLine(prompt string) (string, error) {
	return e.ReadLineWith(prompt, "")
}

// ReadLineWith is like ReadLine but starts with prefill already typed.
// A line completed by Tab ends with '?'.
func (e *Editor) ReadLineWith(prompt, prefill string) (line string, err error) {
	restore, err := e.Terminal.Acquire()
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if _, err := io.WriteString(e.Out, prompt+prefill); err != nil {
		return "", err
	}

	line, err = e.edit([]byte(prefill))
	if err != nil {
		return "", err
	}
	e.History.Save(line)
	return line, nil
}

func (e *Editor) edit(buf []byte) (string, error) {
	st := stateNormal
	var b [1]byte

	for {
		if _, err := io.ReadFull(e.In, b[:]); err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				// Input without a final newline still completes the line.
				return string(buf), nil
			}
			return "", err
		}
		ch := b[0]

		switch st {
		case stateEscape1:
			st = stateNormal
			if ch == '[' {
				st = stateEscape2
			}
			continue

		case stateEscape2:
			st = stateNormal
			if ch == 'A' {
				buf = e.recall(buf)
			}
			continue
		}

		switch ch {
		case keyTab:
			buf = append(buf, '?')
			e.echo("\n")
			return string(buf), nil

		case keyBackspace:
			if len(buf) > 0 {
				_, size := utf8.DecodeLastRune(buf)
				buf = buf[:len(buf)-size]
				e.echo(erase)
			}

		case keyEscape:
			st = stateEscape1

		case keyEOT:
			return "", io.EOF

		case keyNewline:
			e.echo("\n")
			return string(buf), nil

		default:
			e.Out.Write(b[:])
			buf = append(buf, ch)
			if len(buf) >= MaxLineLength {
				return string(buf), nil
			}
		}
	}
}

// recall erases the displayed buffer and replaces it with the history line.
func (e *Editor) recall(buf []byte) []byte {
	for n := utf8.RuneCount(buf); n > 0; n-- {
		e.echo(erase)
	}
	prev := e.History.Recall()
	e.echo(prev)
	return append(buf[:0], prev...)
}

func (e *Editor) echo(s string) {
	io.WriteString(e.Out, s)
}
