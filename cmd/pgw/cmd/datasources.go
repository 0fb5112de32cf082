package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/perses-gateway/pkg/types"
)

func datasourcesCmd() *cobra.Command {
	datasourcesRoot := &cobra.Command{
		Use:   "datasources",
		Short: "Resolve datasources",
		Long: "Resolve project or global datasources through the gateway's cache and\n" +
			"show the proxy URL queries are sent to.",
	}

	datasourcesRoot.AddCommand(datasourcesGetCmd())

	return datasourcesRoot
}

func datasourcesGetCmd() *cobra.Command {
	var (
		project string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "get <kind>",
		Short: "Resolve a datasource by plugin kind",
		Args:  cobra.ExactArgs(1),
		Example: `  # Default Prometheus datasource of a project
  pgw datasources get PrometheusDatasource --project alpha

  # A named global datasource
  pgw datasources get PrometheusDatasource --name thanos`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().GetDatasource(cmd.Context(), project,
				domain.DatasourceSelector{Kind: args[0], Name: name})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), resp)
			}
			return printDatasourceDetail(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project of the datasource; global when empty")
	cmd.Flags().StringVar(&name, "name", "", "datasource name; the default of kind when empty")

	return cmd
}
