package main

import (
	"github.com/phanxgames/clusterfield"
	"github.com/spf13/cobra"
)

var configOut string

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective config as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
	cmd.Flags().StringVar(&configOut, "out", "", "write to this file instead of stdout")
	return cmd
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if configOut != "" {
		return clusterfield.SaveConfig(configOut, cfg)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
