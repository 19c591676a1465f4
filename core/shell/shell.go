// Package shell runs the interactive loop: it reads a line, parses it into a
// pipeline and starts a process for every stage.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/josephlewis42/seashell/commands"
	"github.com/josephlewis42/seashell/core/config"
	"github.com/josephlewis42/seashell/core/lineedit"
	"github.com/josephlewis42/seashell/core/logger"
	"github.com/josephlewis42/seashell/core/parser"
	"github.com/josephlewis42/seashell/core/vos"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Status is the result of executing a line.
type Status int

const (
	// StatusSuccess means the line was handled, the shell continues.
	StatusSuccess Status = iota
	// StatusExit means the shell should terminate.
	StatusExit
	// StatusUnknown means the command wasn't recognized, the shell continues.
	StatusUnknown
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusExit:
		return "exit"
	case StatusUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Signal tells the prompt loop what to do next.
type Signal int

const (
	Continue Signal = iota
	Terminate
)

// Signal maps the status to the loop's next step.
func (s Status) Signal() Signal {
	if s == StatusExit {
		return Terminate
	}
	return Continue
}

// Shell is an interactive shell session.
type Shell struct {
	Config   *config.Configuration
	Log      *logger.SessionLogger
	OS       vos.ShellOS
	Session  *Session
	Editor   *lineedit.Editor
	Spawner  Spawner
	Registry *commands.Registry
}

// New creates a shell reading and echoing lines through the standard streams
// of osys.
func New(cfg *config.Configuration, log *logger.SessionLogger, osys vos.ShellOS, session *Session, spawner Spawner) *Shell {
	return &Shell{
		Config:   cfg,
		Log:      log,
		OS:       osys,
		Session:  session,
		Editor:   lineedit.New(osys.Stdin(), osys.Stdout(), session.Terminal, session.History),
		Spawner:  spawner,
		Registry: commands.AllCommands,
	}
}

// Run reads and executes lines until the user exits, input ends or the
// context is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	s.Log.Info("session started")
	defer s.Log.Info("session ended")

	for ctx.Err() == nil {
		line, err := s.Editor.ReadLineWith(s.Prompt(), s.Session.TakePending())
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.OS.Stdout())
			return nil
		case err != nil:
			return fmt.Errorf("reading line: %w", err)
		}

		pipeline := parser.Parse(line)
		s.Log.Debug("parsed line",
			zap.String("line", line),
			zap.Int("stages", len(pipeline.Stages)),
			zap.Bool("background", pipeline.Background()))

		status := s.Execute(ctx, pipeline)
		s.Log.Debug("executed line", zap.Stringer("status", status))
		if status.Signal() == Terminate {
			return nil
		}
	}
	return ctx.Err()
}

// Execute runs a parsed line.
func (s *Shell) Execute(ctx context.Context, p *parser.Pipeline) Status {
	first := p.First()
	if first == nil || first.Name == "" {
		return StatusSuccess
	}

	if first.Autocomplete {
		s.complete(p)
		return StatusSuccess
	}

	if builtin, ok := AllBuiltins[first.Name]; ok {
		if len(p.Stages) > 1 {
			s.Log.Warn("ignoring stages after shell builtin",
				zap.String("builtin", first.Name),
				zap.Int("ignored", len(p.Stages)-1))
		}
		return builtin(s, first)
	}

	if ctx.Err() != nil {
		return StatusSuccess
	}
	return s.spawnPipeline(p)
}

// running is a started stage.
type running struct {
	cmd     *parser.Command
	proc    Process
	handoff *os.File
}

func (s *Shell) spawnPipeline(p *parser.Pipeline) Status {
	stages := lo.Filter(p.Stages, func(c *parser.Command, _ int) bool {
		return c.Name != ""
	})

	var (
		started []*running
		// parentCopies are descriptors the children inherited, the shell
		// closes its copies once every stage has started.
		parentCopies []io.Closer
		nextStdin    io.Reader
	)

	abort := func(format string, a ...interface{}) Status {
		s.reportf(format, a...)
		closeAll(parentCopies)
		for _, r := range started {
			_ = r.proc.Kill()
			_, _ = r.proc.Wait()
			r.handoff.Close()
		}
		return StatusSuccess
	}

	for i, cmd := range stages {
		req := &SpawnRequest{Argv: cmd.Argv(), Stdin: nextStdin}
		nextStdin = nil

		handoffR, handoffW, err := os.Pipe()
		if err != nil {
			return abort("%s: handoff: %s", cmd.Name, errText(err))
		}
		parentCopies = append(parentCopies, handoffW)
		req.Handoff = handoffW

		if i+1 < len(stages) {
			pipeR, pipeW, err := os.Pipe()
			if err != nil {
				handoffR.Close()
				return abort("%s: pipe: %s", cmd.Name, errText(err))
			}
			parentCopies = append(parentCopies, pipeR, pipeW)
			req.Stdout = pipeW
			nextStdin = pipeR
		}

		files, err := s.openRedirects(cmd, req)
		parentCopies = append(parentCopies, files...)
		if err != nil {
			handoffR.Close()
			return abort("%s", err)
		}

		proc, err := s.Spawner.Spawn(req)
		if err != nil {
			handoffR.Close()
			return abort("%s: %s", cmd.Name, errText(err))
		}
		s.Log.Info("spawned stage",
			zap.Strings("argv", req.Argv),
			zap.Int("pid", proc.Pid()),
			zap.Int("stage", i))
		started = append(started, &running{cmd: cmd, proc: proc, handoff: handoffR})
	}

	closeAll(parentCopies)

	for _, r := range started {
		s.receiveHandoff(r.handoff)
		r.handoff.Close()
	}

	if p.Background() {
		return StatusSuccess
	}

	status := StatusSuccess
	for i, r := range started {
		code, err := r.proc.Wait()
		if err != nil {
			s.Log.Warn("waiting for stage", zap.String("name", r.cmd.Name), zap.Error(err))
		}
		s.Log.Debug("stage exited", zap.String("name", r.cmd.Name), zap.Int("code", code))
		if i == len(started)-1 && code == ExitCommandNotFound {
			status = StatusUnknown
		}
	}
	return status
}

// openRedirects opens the stage's redirect targets and wires them into req,
// an explicit redirect replaces any pipe. The opened files are returned even
// on error so the caller can close them.
func (s *Shell) openRedirects(cmd *parser.Command, req *SpawnRequest) ([]io.Closer, error) {
	var opened []io.Closer

	open := func(target string, flag int) (vos.File, error) {
		f, err := s.OS.OpenFile(vos.Abs(s.OS, target), flag, 0644)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", target, errText(err))
		}
		opened = append(opened, f)
		return f, nil
	}

	if target := cmd.Redirect(parser.RedirectInput); target != "" {
		f, err := open(target, os.O_RDONLY)
		if err != nil {
			return opened, err
		}
		req.Stdin = f
	}
	if target := cmd.Redirect(parser.RedirectOutput); target != "" {
		f, err := open(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
		if err != nil {
			return opened, err
		}
		req.Stdout = f
	}
	if target := cmd.Redirect(parser.RedirectAppend); target != "" {
		f, err := open(target, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
		if err != nil {
			return opened, err
		}
		req.Stdout = f
	}
	return opened, nil
}

// receiveHandoff reads the directory a stage handed back and moves the shell
// there. It returns once the stage closed its end, by exiting, running a
// program or closing the channel explicitly.
func (s *Shell) receiveHandoff(r io.Reader) {
	data, err := io.ReadAll(io.LimitReader(r, int64(s.Config.HandoffBufferSize)))
	if err != nil {
		s.Log.Warn("reading handoff", zap.Error(err))
		return
	}

	dir := strings.TrimRight(string(data), "\x00\n")
	if dir == "" {
		return
	}
	s.Log.Info("handoff", zap.String("dir", dir))
	s.chdir(dir)
}

// reportf prints an error for the user prefixed with the shell name.
func (s *Shell) reportf(format string, a ...interface{}) {
	fmt.Fprintf(s.OS.Stderr(), "-%s: %s\n", s.Config.ShellName, fmt.Sprintf(format, a...))
}

// errText strips the operation and path from filesystem errors leaving the
// reason, e.g. "no such file or directory".
func errText(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		c.Close()
	}
}
