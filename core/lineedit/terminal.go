package lineedit

import (
	"os"

	"golang.org/x/term"
)

// Terminal switches the input device into a mode where bytes are delivered as
// they are typed without being echoed.
type Terminal interface {
	// Acquire enters the mode and returns a func restoring the previous one.
	Acquire() (restore func() error, err error)
}

// NopTerminal is used for input that isn't a terminal, e.g. a pipe.
type NopTerminal struct{}

var _ Terminal = NopTerminal{}

// Acquire implements Terminal.
func (NopTerminal) Acquire() (func() error, error) {
	return func() error { return nil }, nil
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewTerminal returns the Terminal controlling f, or NopTerminal if f isn't
// a terminal.
func NewTerminal(f *os.File) Terminal {
	if !IsTerminal(f) {
		return NopTerminal{}
	}
	return newHostTerminal(int(f.Fd()))
}
