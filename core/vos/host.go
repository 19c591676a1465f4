package vos

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/josephlewis42/seashell/core/config"
	"github.com/spf13/afero"
)

// HostOS is a VOS backed by the running process and the real filesystem.
type HostOS struct {
	VFS
	VEnv
	VIO

	args    []string
	cfg     *config.Configuration
	handoff io.Writer
}

var _ ShellOS = (*HostOS)(nil)

// NewHostOS creates a VOS over the host. A nil handoff discards handoff
// writes.
func NewHostOS(args []string, cfg *config.Configuration, handoff io.Writer) *HostOS {
	if handoff == nil {
		handoff = io.Discard
	}
	return &HostOS{
		VFS:     afero.NewOsFs(),
		VEnv:    hostEnv{},
		VIO:     HostStreams(),
		args:    args,
		cfg:     cfg,
		handoff: handoff,
	}
}

// Args implements VOS.Args.
func (h *HostOS) Args() []string {
	return h.args
}

// Getwd implements VOS.Getwd.
func (h *HostOS) Getwd() (string, error) {
	return os.Getwd()
}

// Chdir implements ShellOS.Chdir.
func (h *HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// Hostname implements VOS.Hostname.
func (h *HostOS) Hostname() (string, error) {
	return os.Hostname()
}

// Config implements VOS.Config.
func (h *HostOS) Config() *config.Configuration {
	return h.cfg
}

// Handoff implements VOS.Handoff.
func (h *HostOS) Handoff() io.Writer {
	return h.handoff
}

// Run implements VOS.Run.
func (h *HostOS) Run(argv []string) (int, error) {
	if len(argv) == 0 {
		return -1, ErrNotFound
	}
	path, err := LookPath(h, argv[0])
	if err != nil {
		return -1, err
	}

	// Pass the descriptors themselves, a wrapped stdin would make Wait block
	// until the next byte is typed.
	cmd := exec.Command(path)
	cmd.Args = argv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	case err != nil:
		return -1, err
	default:
		return 0, nil
	}
}
