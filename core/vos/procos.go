package vos

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/josephlewis42/seashell/core/config"
)

// Runner runs an external program on behalf of ProcOS.
type Runner func(v VOS, argv []string) (int, error)

// ProcOS is a VOS whose process state lives entirely in memory. It's paired
// with an in-memory VFS to run builtins deterministically.
type ProcOS struct {
	VFS
	VEnv
	VIO

	ProcArgs     []string
	Dir          string
	HostnameName string
	Cfg          *config.Configuration
	HandoffW     io.Writer
	Runner       Runner
}

var _ ShellOS = (*ProcOS)(nil)

// Args implements VOS.Args.
func (p *ProcOS) Args() []string {
	return p.ProcArgs
}

// Getwd implements VOS.Getwd.
func (p *ProcOS) Getwd() (string, error) {
	if p.Dir == "" {
		return "/", nil
	}
	return filepath.Clean(p.Dir), nil
}

// Chdir implements ShellOS.Chdir, the directory must exist in the VFS.
func (p *ProcOS) Chdir(dir string) error {
	path := Abs(p, dir)
	info, err := p.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	case err != nil:
		return &os.PathError{Op: "chdir", Path: dir, Err: err}
	case !info.IsDir():
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}
	p.Dir = path
	return nil
}

// Hostname implements VOS.Hostname.
func (p *ProcOS) Hostname() (string, error) {
	return p.HostnameName, nil
}

// Config implements VOS.Config.
func (p *ProcOS) Config() *config.Configuration {
	return p.Cfg
}

// Handoff implements VOS.Handoff.
func (p *ProcOS) Handoff() io.Writer {
	if p.HandoffW == nil {
		return io.Discard
	}
	return p.HandoffW
}

// Run implements VOS.Run.
func (p *ProcOS) Run(argv []string) (int, error) {
	if p.Runner == nil {
		return -1, &os.PathError{Op: "exec", Path: firstOr(argv, ""), Err: ErrNotFound}
	}
	return p.Runner(p, argv)
}

func firstOr(s []string, fallback string) string {
	if len(s) == 0 {
		return fallback
	}
	return s[0]
}
