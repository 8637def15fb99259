package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"morphviewer/pkg/config"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// rootCmd is the base command; every action lives in a subcommand.
	rootCmd = &cobra.Command{
		Use:   "morphviewer",
		Short: "Edit binary voxel volumes: erode, dilate, cluster-filter, reorient and export.",
		Long: `morphviewer drives a volume editing session from the command line.

Each operation is applied to the session volume in order, the current slice can be
rendered after every step, and exports are written back in the acquisition
orientation as <basename>_morph_<N>.nii.gz.`,
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(cmd *cobra.Command, _ []string) {
			version := "devel"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "morphviewer", version)
		},
	}
)

// Execute runs the CLI and exits with a non-zero status on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.AddCommand(runCmd, configCmd, versionCmd)
}
