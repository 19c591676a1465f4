package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/josephlewis42/seashell/core/vos"
	"github.com/spf13/afero"
)

// Kdiff compares two files line by line (-a) or byte by byte (-b).
func Kdiff(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "kdiff [-a|-b] FILE1 FILE2",
		Short: "Compare two files by line (default) or by byte.",
	}
	byLine := cmd.Flags().Bool('a', "compare line by line")
	byByte := cmd.Flags().Bool('b', "compare byte by byte")

	return cmd.Run(virtOS, func(args []string) int {
		w := virtOS.Stdout()
		switch {
		case len(args) == 0:
			fmt.Fprintln(w, "Please enter at least 2 file names")
			return 0
		case len(args) == 1:
			fmt.Fprintln(w, "Please enter a valid number of arguments")
			return 0
		case *byLine && *byByte:
			fmt.Fprintln(w, "Given mode argument is invalid. Please use -a or -b.")
			return 0
		}

		name1, name2 := args[0], args[1]
		data1, err := afero.ReadFile(virtOS, vos.Abs(virtOS, name1))
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "kdiff: %v\n", err)
			return 1
		}
		data2, err := afero.ReadFile(virtOS, vos.Abs(virtOS, name2))
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "kdiff: %v\n", err)
			return 1
		}

		if *byByte {
			kdiffBytes(w, data1, data2)
		} else {
			kdiffLines(w, name1, name2, data1, data2)
		}
		return 0
	})
}

func kdiffLines(w io.Writer, name1, name2 string, data1, data2 []byte) {
	lines1, lines2 := splitLines(data1), splitLines(data2)
	total := len(lines1)
	if len(lines2) > total {
		total = len(lines2)
	}

	different := 0
	for i := 0; i < total; i++ {
		line1, line2 := lineAt(lines1, i), lineAt(lines2, i)
		if line1 == line2 {
			continue
		}
		different++
		fmt.Fprintf(w, "%s:Line %d: %s\n", name1, i+1, line1)
		fmt.Fprintf(w, "%s:Line %d: %s\n", name2, i+1, line2)
	}

	if different == 0 {
		fmt.Fprintln(w, "The two files are identical")
	} else {
		fmt.Fprintf(w, "%d different lines found\n", different)
	}
}

func kdiffBytes(w io.Writer, data1, data2 []byte) {
	total := len(data1)
	if len(data2) > total {
		total = len(data2)
	}

	different := 0
	for i := 0; i < total; i++ {
		if i >= len(data1) || i >= len(data2) || data1[i] != data2[i] {
			different++
		}
	}

	if different == 0 {
		fmt.Fprintf(w, "The two files are identical and have %d bytes\n", total)
	} else {
		fmt.Fprintf(w, "The two files are different in %d bytes\n", different)
	}
}

func splitLines(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 4096), len(data)+bufio.MaxScanTokenSize)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	return out
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

var _ vos.ProcessFunc = Kdiff

func init() {
	mustAddBuiltin(Builtin{
		Name:  "kdiff",
		Use:   "kdiff [-a|-b] FILE1 FILE2",
		Short: "Compare two files by line (default) or by byte.",
		Proc:  Kdiff,
	})
}
