package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/seashell/core/vos"
)

// highlightDelims separate words when searching a line.
const highlightDelims = " ,.:;\t\r\n\v\f"

var highlightColors = map[string]*color.Color{
	"r": ColorRed,
	"g": ColorGreen,
	"b": ColorBlue,
}

// Highlight prints the lines of a file containing a word with every
// occurrence of the word colored.
func Highlight(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "highlight [--color=WHEN] WORD r|g|b FILE",
		Short: "Print lines of FILE containing WORD with WORD highlighted.",
	}
	printer := &ColorPrinter{}
	printer.Init(cmd.Flags())

	return cmd.Run(virtOS, func(args []string) int {
		w := virtOS.Stdout()
		if len(args) < 3 {
			fmt.Fprintln(w, ErrMissingParameters)
			return 0
		}
		word, colorName, file := args[0], args[1], args[2]

		col, ok := highlightColors[colorName]
		if !ok {
			fmt.Fprintln(w, "Invalid color")
			return 0
		}

		fd, err := virtOS.Open(vos.Abs(virtOS, file))
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "highlight: %v\n", err)
			return 1
		}
		defer fd.Close()

		scanner := bufio.NewScanner(fd)
		for scanner.Scan() {
			tokens := strings.FieldsFunc(scanner.Text(), func(r rune) bool {
				return strings.ContainsRune(highlightDelims, r)
			})
			if !containsFold(tokens, word) {
				continue
			}

			var sb strings.Builder
			for _, tok := range tokens {
				if strings.EqualFold(tok, word) {
					sb.WriteString(printer.Sprintf(col, "%s", tok))
					sb.WriteString(" ")
				} else {
					sb.WriteString(tok + " ")
				}
			}
			fmt.Fprintf(w, "%s.\n", sb.String())
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(virtOS.Stderr(), "highlight: %v\n", err)
			return 1
		}
		return 0
	})
}

func containsFold(tokens []string, word string) bool {
	for _, tok := range tokens {
		if strings.EqualFold(tok, word) {
			return true
		}
	}
	return false
}

var _ vos.ProcessFunc = Highlight

func init() {
	mustAddBuiltin(Builtin{
		Name:    "highlight",
		Use:     "highlight [--color=WHEN] WORD r|g|b FILE",
		Short:   "Print lines of FILE containing WORD with WORD highlighted.",
		MinArgs: 3,
		Proc:    Highlight,
	})
}
