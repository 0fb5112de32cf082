package cmd

import (
	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cacheRoot := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the datasource cache",
	}

	cacheRoot.AddCommand(
		&cobra.Command{
			Use:     "stats",
			Short:   "Show cache entry counts",
			Example: `  pgw cache stats`,
			RunE: func(cmd *cobra.Command, _ []string) error {
				stats, err := newClient().CacheStats(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), stats)
				}
				return printCacheStats(cmd.OutOrStdout(), stats)
			},
		},
		&cobra.Command{
			Use:     "warm",
			Short:   "Load every project's datasources into the cache now",
			Example: `  pgw cache warm`,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res, err := newClient().WarmCache(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput() {
					return outputJSON(cmd.OutOrStdout(), res)
				}
				return printWarmup(cmd.OutOrStdout(), res)
			},
		},
	)

	return cacheRoot
}
