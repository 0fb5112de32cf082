// Package cmd implements the pgw CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/perses-gateway/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "pgw",
		Short: "CLI client for perses-gateway",
		Long: "pgw is a command-line client for the perses-gateway API.\n" +
			"It lists the dashboards and projects the gateway serves, resolves\n" +
			"datasources and inspects the datasource cache.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.pgw.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "gateway URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("user", "", "send requests as this user (X-Forwarded-User)")
	rootCmd.PersistentFlags().
		StringSlice("groups", nil, "groups of --user (X-Forwarded-Groups)")

	for _, name := range []string{"server", "output", "user", "groups"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(dashboardsCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(datasourcesCmd())
	rootCmd.AddCommand(cacheCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pgw")
	}

	viper.SetEnvPrefix("PGW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	var opts []apiclient.Option
	if user := viper.GetString("user"); user != "" {
		opts = append(opts, apiclient.WithIdentity(user, viper.GetStringSlice("groups")...))
	}
	return apiclient.New(viper.GetString("server"), opts...)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
