// Package vos provides the operating system view handed to shell builtins.
//
// Builtins never touch the os package directly, instead they receive a VOS
// which is backed by the host when the shell runs and by an in-memory
// filesystem under test.
package vos

import (
	"io"
	"path/filepath"

	"github.com/josephlewis42/seashell/core/config"
	"github.com/spf13/afero"
)

// VFS implements a virtual filesystem.
type VFS = afero.Fs

// File is an open file in a VFS.
type File = afero.File

// VIO holds the standard streams of a process.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// VOS provides a virtual OS interface.
type VOS interface {
	VIO
	VEnv
	VFS

	// Args returns the arguments of the current process, Args()[0] is the
	// command name.
	Args() []string

	// Getwd returns a rooted path name corresponding to the current directory.
	Getwd() (dir string, err error)

	// Hostname returns the host name reported by the kernel.
	Hostname() (string, error)

	// Config returns the shell configuration.
	Config() *config.Configuration

	// Handoff returns the write side of the channel used to send a single
	// value back to the shell that spawned the builtin. Values written here
	// are applied by the shell after the builtin exits, currently as a new
	// working directory.
	Handoff() io.Writer

	// Run resolves argv[0] on the PATH, runs it to completion with the
	// process' standard streams and returns its exit status.
	Run(argv []string) (int, error)
}

// ProcessFunc is a builtin that can be run, it returns the exit status.
type ProcessFunc func(VOS) int

// Abs resolves name against the working directory of the process.
func Abs(v VOS, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	wd, err := v.Getwd()
	if err != nil {
		return name
	}
	return filepath.Join(wd, name)
}

// ShellOS is the view of the OS the shell itself runs with. Unlike builtins,
// which run in their own process, the shell may change its working directory.
type ShellOS interface {
	VOS

	// Chdir changes the current working directory.
	Chdir(dir string) error
}
