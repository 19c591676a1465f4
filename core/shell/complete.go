package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/josephlewis42/seashell/core/parser"
	"github.com/josephlewis42/seashell/core/vos"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// complete handles a line ending in '?'. The last word of the line is
// completed as a command name if it's the first word of its stage or as a
// path otherwise. A single candidate is typed into the next prompt, several
// are listed.
func (s *Shell) complete(p *parser.Pipeline) {
	last := p.Stages[len(p.Stages)-1]
	completingName := last.ArgCount() == 0

	word := last.Name
	if !completingName {
		word = last.Args[last.ArgCount()-1]
	}
	word = strings.TrimSuffix(word, "?")

	var candidates []string
	if completingName {
		candidates = s.commandCandidates(word)
	} else {
		candidates = s.pathCandidates(word)
	}
	s.Log.Debug("completion", zap.String("word", word), zap.Int("candidates", len(candidates)))

	switch len(candidates) {
	case 0:
		return
	case 1:
		s.Session.Pending = completedLine(p, last, completingName, candidates[0])
	default:
		fmt.Fprintln(s.OS.Stdout(), strings.Join(candidates, " "))
	}
}

// commandCandidates lists shell builtins, registered builtins and programs on
// the PATH matching word.
func (s *Shell) commandCandidates(word string) []string {
	var names []string
	names = append(names, BuiltinNames()...)
	names = append(names, s.Registry.Names()...)
	names = append(names, vos.Executables(s.OS, s.OS.Getenv(vos.EnvPath))...)

	return rankCandidates(word, lo.Uniq(names))
}

// pathCandidates lists directory entries matching word, relative paths are
// resolved against the working directory. Directories end with '/'.
func (s *Shell) pathCandidates(word string) []string {
	dirPart, base := "", word
	if idx := strings.LastIndex(word, "/"); idx >= 0 {
		dirPart, base = word[:idx+1], word[idx+1:]
	}

	dir := dirPart
	if dir == "" {
		dir = "."
	}
	entries, err := afero.ReadDir(s.OS, vos.Abs(s.OS, dir))
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}

	return lo.Map(rankCandidates(base, names), func(name string, _ int) string {
		return dirPart + name
	})
}

// rankCandidates returns the names starting with word, sorted. When none do,
// fuzzy matches are returned best first.
func rankCandidates(word string, names []string) []string {
	matches := lo.Filter(names, func(name string, _ int) bool {
		return strings.HasPrefix(name, word)
	})
	if len(matches) > 0 || word == "" {
		sort.Strings(matches)
		return matches
	}

	return lo.Map(fuzzy.Find(word, names), func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}

// completedLine renders the pipeline with the last word replaced by the
// candidate. A space follows anything but a directory so the next word can be
// typed straight away.
func completedLine(p *parser.Pipeline, last *parser.Command, completingName bool, candidate string) string {
	var stages []string
	for _, stage := range p.Stages {
		cmd := *stage
		if stage == last {
			cmd.Args = append([]string(nil), stage.Args...)
			if completingName {
				cmd.Name = candidate
			} else {
				cmd.Args[len(cmd.Args)-1] = candidate
			}
		}
		stages = append(stages, cmd.String())
	}

	line := strings.Join(stages, " | ")
	if !strings.HasSuffix(candidate, "/") {
		line += " "
	}
	return line
}
