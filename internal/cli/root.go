package cli

import (
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/convoset/internal/config"
)

// cfg is populated by the root command before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "convoset",
	Short:         "Turn chat exports into anonymized conversation datasets",
	Long:          "convoset segments chat exports into conversation windows, replaces every author and message id with per-window aliases, and writes the result as JSON Lines training data.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		setupLogging(cfg.LogLevel)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(serveCmd)
}
