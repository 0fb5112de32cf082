// Package cmd implements the CLI commands for perses-gateway.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "perses-gateway",
	Short: "Serve Perses dashboards scoped to platform projects",
	Long: "perses-gateway sits between the observability dashboard page and Perses. " +
		"It filters dashboards for the caller, binds the namespace variable to the " +
		"platform's projects and caches datasource lookups.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
