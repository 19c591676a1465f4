package cmd

import (
	"strings"

	"github.com/josephlewis42/seashell/core/parser"
	"github.com/spf13/cobra"
)

// parseCmd shows how a line would be split into a pipeline without running it
var parseCmd = &cobra.Command{
	Use:   "parse LINE...",
	Short: "Print the pipeline a command line parses to.",
	Args:  cobra.MinimumNArgs(1),
	// Flags belong to the parsed line.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		pipeline := parser.Parse(strings.Join(args, " "))
		pipeline.Dump(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
