// Package vostest runs builtins against a deterministic in-memory OS.
package vostest

import (
	"bytes"
	"io"

	"github.com/josephlewis42/seashell/core/config"
	"github.com/josephlewis42/seashell/core/vos"
	"github.com/spf13/afero"
)

const (
	// Hostname is reported by every deterministic OS.
	Hostname = "testhost"
	// Home is the home directory of the deterministic user.
	Home = "/home/tester"
)

// NewDeterministicOS creates an in-memory OS rooted in Home with a minimal
// environment and the default configuration.
func NewDeterministicOS(fsys vos.VFS) *vos.ProcOS {
	if fsys == nil {
		fsys = afero.NewMemMapFs()
	}
	_ = fsys.MkdirAll(Home, 0755)

	return &vos.ProcOS{
		VFS: fsys,
		VEnv: vos.NewMapEnvFromEnvList([]string{
			"HOME=" + Home,
			"USER=tester",
			"PATH=/bin:/usr/bin",
		}),
		VIO:          vos.NullStreams(),
		Dir:          Home,
		HostnameName: Hostname,
		Cfg:          config.Default(Home + "/.seashell"),
	}
}

// RunCall records one invocation of VOS.Run.
type RunCall struct {
	Argv []string
	Dir  string
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the process runs in it, otherwise it runs in Home.
	Dir string
	// If Env is non-empty, it's added to the environment of the process in
	// the form returned by Environ.
	Env []string
	// Fs is the filesystem the process sees, a fresh one is used if nil.
	// Reuse it between commands to observe persisted state.
	Fs vos.VFS

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ExitStatus is set by Run.
	ExitStatus int
	// Handoff receives everything the process writes to its handoff channel.
	Handoff bytes.Buffer
	// Runs holds the external programs the process asked to run.
	Runs []RunCall
	// RunStatus is returned for every external program run.
	RunStatus int

	Setup func(*vos.ProcOS) error
}

// Command returns the Cmd struct to execute the process with the given
// arguments.
func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
	}
}

// CombinedOutput runs the command and returns its combined standard output
// and standard error.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the comand and waits for it to complete.
func (c *Cmd) Run() error {
	if c.Fs == nil {
		c.Fs = afero.NewMemMapFs()
	}

	proc := NewDeterministicOS(c.Fs)
	proc.ProcArgs = c.Argv
	proc.VIO = vos.NewStreams(c.Stdin, c.Stdout, c.Stderr)
	proc.HandoffW = &c.Handoff
	proc.Runner = func(v vos.VOS, argv []string) (int, error) {
		dir, _ := v.Getwd()
		c.Runs = append(c.Runs, RunCall{Argv: argv, Dir: dir})
		return c.RunStatus, nil
	}
	if c.Dir != "" {
		proc.Dir = c.Dir
	}
	if err := vos.CopyEnv(proc.VEnv, c.Env); err != nil {
		return err
	}

	if c.Setup != nil {
		if err := c.Setup(proc); err != nil {
			return err
		}
	}

	c.ExitStatus = c.Process(proc)
	return nil
}
