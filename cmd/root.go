package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "wowanalyzer",
	Short: "World of Warcraft combat log analyzer",
	Long: `Replays Warcraft Logs combat logs through per-specification analyzers
and reports statistics and suggestions for one player.

Run "serve" for the web frontend or "analyze" for a single fight.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to configuration file")
}
