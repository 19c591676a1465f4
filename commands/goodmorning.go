package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/seashell/core/vos"
	"github.com/spf13/afero"
)

// GoodMorning schedules a daily alarm that plays a music file.
func GoodMorning(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "goodMorning HH.MM MUSICFILE",
		Short: "Play MUSICFILE every day at HH.MM.",
	}

	return cmd.Run(virtOS, func(args []string) int {
		if len(args) < 2 {
			fmt.Fprintln(virtOS.Stdout(), ErrMissingParameters)
			return 0
		}

		hour, minute, err := parseAlarmTime(args[0])
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "goodMorning: %v\n", err)
			return 1
		}

		cfg := virtOS.Config().Alarm
		cwd, err := virtOS.Getwd()
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "goodMorning: %v\n", err)
			return 1
		}
		alarmPath := filepath.Join(cwd, cfg.FileName)
		entry := fmt.Sprintf("%d %d * * * %s %s\n", minute, hour, cfg.Player, args[1])
		if err := afero.WriteFile(virtOS, alarmPath, []byte(entry), 0644); err != nil {
			fmt.Fprintf(virtOS.Stderr(), "goodMorning: %v\n", err)
			return 1
		}

		scheduler, err := shlex.Split(cfg.Scheduler, true)
		if err != nil || len(scheduler) == 0 {
			fmt.Fprintf(virtOS.Stderr(), "goodMorning: invalid scheduler %q\n", cfg.Scheduler)
			return 1
		}

		status, err := virtOS.Run(append(scheduler, alarmPath))
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "goodMorning: %s: %v\n", scheduler[0], err)
			return 1
		}
		return status
	})
}

// parseAlarmTime parses a 24 hour HH.MM time.
func parseAlarmTime(hhmm string) (hour, minute int, err error) {
	split := strings.SplitN(hhmm, ".", 2)
	if len(split) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH.MM", hhmm)
	}
	hour, herr := strconv.Atoi(split[0])
	minute, merr := strconv.Atoi(split[1])
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH.MM", hhmm)
	}
	return hour, minute, nil
}

var _ vos.ProcessFunc = GoodMorning

func init() {
	mustAddBuiltin(Builtin{
		Name:    "goodMorning",
		Use:     "goodMorning HH.MM MUSICFILE",
		Short:   "Play MUSICFILE every day at HH.MM.",
		MinArgs: 2,
		Proc:    GoodMorning,
	})
}
