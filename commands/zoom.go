package commands

import (
	"errors"
	"fmt"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/seashell/core/config"
	"github.com/josephlewis42/seashell/core/vos"
)

const zoomSep = " "

// Zoom keeps a list of online classes with their links and passwords.
func Zoom(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "zoom -s NAME LINK PASSWORD | -o NAME | -d NAME | -l | -c",
		Short: "Save, open, delete, list or clear online classes.",
	}
	flags := cmd.Flags()
	save := flags.Bool('s', "save a class")
	open := flags.Bool('o', "print the password and open the class link")
	del := flags.Bool('d', "delete a class")
	list := flags.Bool('l', "list classes")
	clearAll := flags.Bool('c', "remove all classes")

	return cmd.Run(virtOS, func(args []string) int {
		w := virtOS.Stdout()
		store := openStore(virtOS, config.ZoomStoreName, zoomSep)

		var err error
		switch {
		case *save:
			if len(args) < 3 {
				fmt.Fprintln(w, ErrMissingParameters)
				return 0
			}
			err = store.Set(args[0], args[1]+zoomSep+args[2])

		case *open:
			if len(args) < 1 {
				fmt.Fprintln(w, ErrMissingParameters)
				return 0
			}
			return zoomOpen(virtOS, store, args[0])

		case *del:
			if len(args) < 1 {
				fmt.Fprintln(w, ErrMissingParameters)
				return 0
			}
			err = store.Delete(args[0])

		case *list:
			var records []flatRecord
			records, err = store.Records()
			for _, rec := range records {
				fmt.Fprintln(w, rec.line(zoomSep))
			}

		case *clearAll:
			err = store.Clear()

		default:
			fmt.Fprintln(w, "Invalid argument")
			return 0
		}

		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "zoom: %v\n", err)
			return 1
		}
		return 0
	})
}

func zoomOpen(virtOS vos.VOS, store *flatStore, name string) int {
	value, ok, err := store.Get(name)
	if err == nil && !ok {
		err = fmt.Errorf("%s: no such class", name)
	}
	if err != nil {
		fmt.Fprintf(virtOS.Stderr(), "zoom: %v\n", err)
		return 1
	}

	link, password := value, ""
	if idx := strings.Index(value, zoomSep); idx >= 0 {
		link, password = value[:idx], value[idx+1:]
	}
	fmt.Fprintf(virtOS.Stdout(), "Password for the class is: %s\n", password)

	opener, err := shlex.Split(virtOS.Config().Zoom.Opener, true)
	if err == nil && len(opener) == 0 {
		err = errors.New("no opener configured")
	}
	if err != nil {
		fmt.Fprintf(virtOS.Stderr(), "zoom: %v\n", err)
		return 1
	}

	status, err := virtOS.Run(append(opener, link))
	if err != nil {
		fmt.Fprintf(virtOS.Stderr(), "zoom: %s: %v\n", opener[0], err)
		return 1
	}
	return status
}

var _ vos.ProcessFunc = Zoom

func init() {
	mustAddBuiltin(Builtin{
		Name:    "zoom",
		Use:     "zoom -s NAME LINK PASSWORD | -o NAME | -d NAME | -l | -c",
		Short:   "Save, open, delete, list or clear online classes.",
		MinArgs: 1,
		Proc:    Zoom,
	})
}
