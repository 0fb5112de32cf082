package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func projectsCmd() *cobra.Command {
	projectsRoot := &cobra.Command{
		Use:   "projects",
		Short: "List platform projects",
	}

	projectsRoot.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the projects offered by the namespace variable",
		Example: `  pgw projects list
  pgw projects list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := newClient().ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, names)
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	})

	return projectsRoot
}
