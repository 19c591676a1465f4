package shell

import "github.com/josephlewis42/seashell/core/lineedit"

// Session is the state carried from one prompt to the next.
type Session struct {
	// History retains the previous line for recall with the up arrow.
	History *lineedit.History
	// Pending is typed into the next prompt, set after a unique completion.
	Pending string
	// Terminal is switched into character mode while a line is read.
	Terminal lineedit.Terminal
}

// NewSession creates a session reading from terminal.
func NewSession(terminal lineedit.Terminal) *Session {
	if terminal == nil {
		terminal = lineedit.NopTerminal{}
	}
	return &Session{
		History:  &lineedit.History{},
		Terminal: terminal,
	}
}

// TakePending returns the pending text and clears it.
func (s *Session) TakePending() string {
	out := s.Pending
	s.Pending = ""
	return out
}
