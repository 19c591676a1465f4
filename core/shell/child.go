package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/josephlewis42/seashell/commands"
	"github.com/josephlewis42/seashell/core/config"
	"github.com/josephlewis42/seashell/core/logger"
	"github.com/josephlewis42/seashell/core/vos"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	// ExitCommandNotFound is the status of a stage whose command couldn't be
	// resolved.
	ExitCommandNotFound = 127
	// ExitCannotExecute is the status of a stage whose program couldn't be
	// started.
	ExitCannotExecute = 126
)

// Child runs a single stage inside the process spawned for it.
type Child struct {
	Config   *config.Configuration
	Log      *logger.SessionLogger
	Registry *commands.Registry
	// Handoff is the channel back to the shell, nil if there is none.
	Handoff *os.File
	// OS is the process' view of the host.
	OS vos.VOS

	// exec replaces the process image, it only returns on failure.
	exec func(path string, argv []string, env []string) error
}

// NewChild creates a child for argv connected to the handoff channel named
// in the environment, if any.
func NewChild(cfg *config.Configuration, log *logger.SessionLogger, argv []string) *Child {
	handoff := HandoffFromEnv()

	// Avoid a typed nil in the interface when there's no channel.
	var handoffW io.Writer
	if handoff != nil {
		handoffW = handoff
	}

	return &Child{
		Config:   cfg,
		Log:      log,
		Registry: commands.AllCommands,
		Handoff:  handoff,
		OS:       vos.NewHostOS(argv, cfg, handoffW),
		exec:     syscall.Exec,
	}
}

// HandoffFromEnv opens the handoff channel inherited from the shell. The
// descriptor is marked close-on-exec so programs a builtin starts, and
// anything they leave running, don't keep the shell waiting on the channel.
func HandoffFromEnv() *os.File {
	fd, err := strconv.Atoi(os.Getenv(HandoffEnv))
	if err != nil || fd < 0 {
		return nil
	}
	unix.CloseOnExec(fd)
	return os.NewFile(uintptr(fd), "handoff")
}

// Run executes argv and returns the exit status. Programs found on the PATH
// replace the current process so Run only returns if they can't be started.
func (c *Child) Run(argv []string) int {
	if len(argv) == 0 || argv[0] == "" {
		return 0
	}
	name := argv[0]

	if builtin, ok := c.Registry.Lookup(name); ok {
		defer c.closeHandoff()
		return c.runBuiltin(builtin, argv)
	}

	path, err := vos.LookPath(c.OS, name)
	if err != nil {
		c.Log.Debug("command not found", zap.String("name", name), zap.Error(err))
		fmt.Fprintf(c.OS.Stderr(), "-%s: %s: command not found\n", c.Config.ShellName, name)
		c.closeHandoff()
		return ExitCommandNotFound
	}

	// Close the channel first so a long running program doesn't keep the
	// shell waiting on it.
	c.closeHandoff()
	err = c.exec(path, argv, childEnv(os.Environ()))

	fmt.Fprintf(c.OS.Stderr(), "-%s: %s: %s\n", c.Config.ShellName, name, errText(err))
	if errors.Is(err, syscall.ENOENT) {
		return ExitCommandNotFound
	}
	return ExitCannotExecute
}

func (c *Child) runBuiltin(builtin *commands.Builtin, argv []string) int {
	if err := builtin.Validate(argv); err != nil {
		fmt.Fprintln(c.OS.Stdout(), err)
		return 0
	}
	c.Log.Debug("running builtin", zap.Strings("argv", argv))
	return builtin.Proc(c.OS)
}

func (c *Child) closeHandoff() {
	if c.Handoff != nil {
		c.Handoff.Close()
		c.Handoff = nil
	}
}

// childEnv removes the shell's private variables from the environment handed
// to programs.
func childEnv(environ []string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		if strings.HasPrefix(kv, HandoffEnv+"=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}
