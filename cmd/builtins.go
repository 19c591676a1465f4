package cmd

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/seashell/commands"
	"github.com/josephlewis42/seashell/core/shell"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands the shell runs itself
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var builtins []string

		for _, builtin := range commands.AllCommands.All() {
			builtins = append(builtins, fmt.Sprintf("%s\t%s", builtin.Name, builtin.Short))
		}

		for _, name := range shell.BuiltinNames() {
			builtins = append(builtins, "shell:"+name)
		}

		sort.Strings(builtins)

		for _, v := range builtins {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
