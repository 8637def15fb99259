package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"morphviewer/pkg/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file.",
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.CreateDefaultConfigFile(configPath); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote default configuration to %s\n", configPath)
			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	configCmd.AddCommand(configInitCmd)
}
