// Command clusterfield runs the cluster puzzle in a window, or inspects grids,
// easings and configuration from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/clusterfield"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	logFile    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	play := newPlayCmd()

	rootCmd := &cobra.Command{
		Use:           "clusterfield",
		Short:         "tile-matching cluster puzzle",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Default to the windowed game when no command is given.
		RunE: play.RunE,
	}
	rootCmd.Flags().AddFlagSet(play.Flags())

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this rotating file")

	rootCmd.AddCommand(play, newDetectCmd(), newEasingCmd(), newConfigCmd())
	return rootCmd
}

// loadConfig reads --config over the defaults and applies the log flags.
func loadConfig() (*clusterfield.Config, error) {
	cfg := clusterfield.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = clusterfield.LoadConfig(configFile); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	return cfg, nil
}
