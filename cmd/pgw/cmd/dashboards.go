package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/perses-gateway/internal/api/client"
)

func dashboardsCmd() *cobra.Command {
	dashboardsRoot := &cobra.Command{
		Use:   "dashboards",
		Short: "Browse dashboards",
		Long: "List the dashboards the gateway shows, fetch a dashboard with its\n" +
			"namespace variable bound to the project list, and build page URLs.",
	}

	dashboardsRoot.AddCommand(
		dashboardsListCmd(),
		dashboardsGetCmd(),
		dashboardsURLCmd(),
	)

	return dashboardsRoot
}

func dashboardsListCmd() *cobra.Command {
	var (
		project string
		admin   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dashboards visible to the caller",
		Example: `  # Cluster-wide dashboards
  pgw dashboards list

  # Dashboards of one project, as a given user
  pgw dashboards list --project monitoring --user alice --groups ops

  # Ask for admin dashboards when the gateway does not review access
  pgw dashboards list --admin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListDashboards(cmd.Context(), &apiclient.ListDashboardsParams{
				Project: project,
				Admin:   admin,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, resp)
			}
			if len(resp.Dashboards) == 0 {
				fmt.Fprintln(out, "No dashboards found.")
				return nil
			}
			return printDashboardsTable(out, resp.Dashboards)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "only list dashboards of this project")
	cmd.Flags().BoolVar(&admin, "admin", false, "include admin dashboards")

	return cmd
}

func dashboardsGetCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "get <project> <name>",
		Short: "Fetch a dashboard as the page receives it",
		Args:  cobra.ExactArgs(2),
		Example: `  pgw dashboards get monitoring dashboard-model-serving
  pgw dashboards get monitoring dashboard-model-serving --namespace alpha,beta`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newClient().GetDashboard(cmd.Context(), args[0], args[1], namespace)
			if err != nil {
				return err
			}
			// A dashboard has no sensible table form.
			return outputJSON(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "initial namespace selection, comma-separated")

	return cmd
}

func dashboardsURLCmd() *cobra.Command {
	var (
		project   string
		namespace string
	)

	cmd := &cobra.Command{
		Use:   "url <dashboard>",
		Short: "Print the page URL of a dashboard",
		Args:  cobra.ExactArgs(1),
		Example: `  pgw dashboards url dashboard-model-serving --project alpha --namespace alpha`,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := newClient().DashboardURL(cmd.Context(), project, args[0], namespace)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"url": u})
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project page; cluster-wide page when empty")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace selection, comma-separated")

	return cmd
}
