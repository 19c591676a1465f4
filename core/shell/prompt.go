package shell

import (
	"strings"

	"github.com/josephlewis42/seashell/core/vos"
)

// Prompt expands the configured prompt template:
//
//	\u  the USER environment variable
//	\h  the hostname
//	\w  the working directory
//	\s  the shell name
func (s *Shell) Prompt() string {
	host, _ := s.OS.Hostname()
	wd, _ := s.OS.Getwd()

	replacer := strings.NewReplacer(
		`\u`, s.OS.Getenv(vos.EnvUser),
		`\h`, host,
		`\w`, wd,
		`\s`, s.Config.ShellName,
	)
	return replacer.Replace(s.Config.Prompt)
}
