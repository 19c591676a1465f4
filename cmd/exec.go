package cmd

import (
	"os"

	"github.com/josephlewis42/seashell/core/logger"
	"github.com/josephlewis42/seashell/core/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// execCmd is the entry point of every stage the shell spawns.
var execCmd = &cobra.Command{
	Use:    shell.ExecCommand + " -- NAME [ARGS...]",
	Short:  "Run a single pipeline stage.",
	Hidden: true,
	Args:   cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			cmd.PrintErrln(err)
			os.Exit(shell.ExitCannotExecute)
		}

		zapLog, err := logger.New(cfg)
		if err != nil {
			zapLog = zap.NewNop()
		}
		log := logger.Sessionless(zapLog.With(zap.Int("pid", os.Getpid())))

		code := shell.NewChild(cfg, log, args).Run(args)
		_ = zapLog.Sync()
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
