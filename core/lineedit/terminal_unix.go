//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package lineedit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// hostTerminal toggles canonical mode and echo with termios.
type hostTerminal struct {
	fd int
}

func newHostTerminal(fd int) Terminal {
	return &hostTerminal{fd: fd}
}

// Acquire implements Terminal.
func (t *hostTerminal) Acquire() (func() error, error) {
	saved, err := unix.IoctlGetTermios(t.fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal mode: %w", err)
	}

	mode := *saved
	mode.Lflag &^= unix.ICANON | unix.ECHO
	mode.Cc[unix.VMIN] = 1
	mode.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, ioctlWriteTermios, &mode); err != nil {
		return nil, fmt.Errorf("setting terminal mode: %w", err)
	}

	return func() error {
		return unix.IoctlSetTermios(t.fd, ioctlWriteTermios, saved)
	}, nil
}
