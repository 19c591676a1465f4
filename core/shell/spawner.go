package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

const (
	// ExecCommand is the hidden sub-command a spawned stage runs as.
	ExecCommand = "__exec"
	// HandoffEnv names the file descriptor of the handoff channel in a
	// spawned stage.
	HandoffEnv = "SEASHELL_HANDOFF_FD"
	// handoffFD is the descriptor the handoff lands on, ExtraFiles start at 3.
	handoffFD = 3
)

// SpawnRequest describes a single stage to start.
type SpawnRequest struct {
	// Argv is the stage's argument vector, Argv[0] is the command name.
	Argv []string
	// Stdin, Stdout and Stderr are inherited from the shell when nil.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Handoff is the write end of the channel the stage may use to send a
	// directory back to the shell.
	Handoff *os.File
}

// Process is a started stage.
type Process interface {
	// Pid returns the process ID.
	Pid() int
	// Wait blocks until the process exits and returns its exit status.
	Wait() (int, error)
	// Kill stops the process immediately.
	Kill() error
}

// Spawner starts stages.
type Spawner interface {
	Spawn(req *SpawnRequest) (Process, error)
}

// ExecSpawner starts each stage by running the shell binary again in its
// hidden exec mode. The child runs a builtin or replaces itself with the
// program found on the PATH.
type ExecSpawner struct {
	// Executable is the shell binary.
	Executable string
	// ConfigDir is passed to the child so builtins see the same configuration.
	ConfigDir string
}

var _ Spawner = (*ExecSpawner)(nil)

// NewExecSpawner creates a spawner that re-runs the current executable.
func NewExecSpawner(configDir string) (*ExecSpawner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating shell binary: %w", err)
	}
	return &ExecSpawner{Executable: exe, ConfigDir: configDir}, nil
}

// Args returns the arguments the shell binary is started with for argv.
func (e *ExecSpawner) Args(argv []string) []string {
	args := []string{ExecCommand}
	if e.ConfigDir != "" {
		args = append(args, "--config", e.ConfigDir)
	}
	args = append(args, "--")
	return append(args, argv...)
}

// Spawn implements Spawner.
func (e *ExecSpawner) Spawn(req *SpawnRequest) (Process, error) {
	cmd := exec.Command(e.Executable, e.Args(req.Argv)...)
	cmd.Stdin = readerOr(req.Stdin, os.Stdin)
	cmd.Stdout = writerOr(req.Stdout, os.Stdout)
	cmd.Stderr = writerOr(req.Stderr, os.Stderr)
	cmd.Env = os.Environ()
	if req.Handoff != nil {
		cmd.ExtraFiles = []*os.File{req.Handoff}
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%d", HandoffEnv, handoffFD))
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
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

func (p *execProcess) Kill() error {
	return p.cmd.Process.Kill()
}

func readerOr(r io.Reader, fallback *os.File) io.Reader {
	if r == nil {
		return fallback
	}
	return r
}

func writerOr(w io.Writer, fallback *os.File) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
