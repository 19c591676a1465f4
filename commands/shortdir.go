package commands

import (
	"fmt"
	"io"

	"github.com/josephlewis42/seashell/core/config"
	"github.com/josephlewis42/seashell/core/vos"
)

const shortdirSep = ":"

// Shortdir associates short names with directories and jumps between them.
func Shortdir(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "shortdir set|del|jump NAME | shortdir list|clear",
		Short: "Bookmark directories under short names.",
	}

	return cmd.Run(virtOS, func(args []string) int {
		w := virtOS.Stdout()
		if len(args) == 0 {
			fmt.Fprintln(w, ErrMissingParameters)
			return 0
		}

		store := openStore(virtOS, config.ShortdirStoreName, shortdirSep)
		sub, rest := args[0], args[1:]

		var err error
		switch sub {
		case "set", "del", "jump":
			if len(rest) == 0 {
				fmt.Fprintln(w, "Please enter an alias name")
				return 0
			}
			err = shortdirNamed(virtOS, store, sub, rest[0])

		case "clear":
			err = store.Clear()

		case "list":
			err = shortdirList(w, store)

		default:
			fmt.Fprintln(w, "Invalid argument")
			return 0
		}

		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "shortdir: %v\n", err)
			return 1
		}
		return 0
	})
}

func shortdirNamed(virtOS vos.VOS, store *flatStore, sub, name string) error {
	switch sub {
	case "set":
		cwd, err := virtOS.Getwd()
		if err != nil {
			return err
		}
		if err := store.Set(name, cwd); err != nil {
			return err
		}
		fmt.Fprintf(virtOS.Stdout(), "%s is set as an alias for %s\n", name, cwd)
		return nil

	case "del":
		return store.Delete(name)

	default:
		path, ok, err := store.Get(name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: no such alias", name)
		}
		_, err = io.WriteString(virtOS.Handoff(), path)
		return err
	}
}

func shortdirList(w io.Writer, store *flatStore) error {
	records, err := store.Records()
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Fprintln(w, rec.line(shortdirSep))
	}
	return nil
}

var _ vos.ProcessFunc = Shortdir

func init() {
	mustAddBuiltin(Builtin{
		Name:    "shortdir",
		Use:     "shortdir set|del|jump NAME | shortdir list|clear",
		Short:   "Bookmark directories under short names.",
		MinArgs: 1,
		Proc:    Shortdir,
	})
}
