package shell

import (
	"sort"

	"github.com/josephlewis42/seashell/core/parser"
	"github.com/josephlewis42/seashell/core/vos"
	"go.uber.org/zap"
)

// ShellBuiltinFunc is a command that must run inside the shell process
// because it changes the shell's own state.
type ShellBuiltinFunc func(s *Shell, cmd *parser.Command) Status

// AllBuiltins holds the shell builtins by name.
var AllBuiltins = make(map[string]ShellBuiltinFunc)

// BuiltinNames lists the shell builtins in sorted order.
func BuiltinNames() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Cd changes the shell's working directory to its first argument or $HOME.
func Cd(s *Shell, cmd *parser.Command) Status {
	dir := s.OS.Getenv(vos.EnvHome)
	if cmd.ArgCount() > 0 {
		dir = cmd.Args[0]
	}
	if dir == "" {
		s.reportf("cd: HOME not set")
		return StatusSuccess
	}

	s.chdir(dir)
	return StatusSuccess
}

// Exit quits the shell.
func Exit(s *Shell, cmd *parser.Command) Status {
	return StatusExit
}

func (s *Shell) chdir(dir string) {
	if err := s.OS.Chdir(dir); err != nil {
		s.reportf("cd: %s", errText(err))
		return
	}
	s.Log.Debug("changed directory", zap.String("dir", dir))
}

func init() {
	AllBuiltins["cd"] = Cd
	AllBuiltins["exit"] = Exit
}
