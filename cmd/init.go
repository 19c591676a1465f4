package cmd

import (
	"github.com/josephlewis42/seashell/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// initCmd intializes the shell configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the config directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Initialize(afero.NewOsFs(), cfgPath)
		if err != nil {
			return err
		}
		cmd.Printf("Configuration written to %s\n", cfg.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
