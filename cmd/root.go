package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/seashell/core/config"
	"github.com/josephlewis42/seashell/core/lineedit"
	"github.com/josephlewis42/seashell/core/logger"
	"github.com/josephlewis42/seashell/core/shell"
	"github.com/josephlewis42/seashell/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.LoadOrDefault(afero.NewOsFs(), cfgPath)
	if err != nil {
		return nil, fmt.Errorf("couldn't load config from %q: %w", cfgPath, err)
	}
	return configuration, nil
}

// rootCmd runs the interactive shell when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "seashell",
	Short: "A small interactive shell",
	Long: `seashell reads command lines from the terminal, runs pipelines of programs
found on the PATH and a handful of builtins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		zapLog, err := logger.New(cfg)
		if err != nil {
			return err
		}
		defer zapLog.Sync()
		log := logger.NewSession(zapLog)

		spawner, err := shell.NewExecSpawner(cfg.Dir())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		osys := vos.NewHostOS(append([]string{cmd.Name()}, args...), cfg, nil)
		session := shell.NewSession(lineedit.NewTerminal(os.Stdin))
		return shell.New(cfg, log, osys, session, spawner).Run(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir(), "config directory")
}
