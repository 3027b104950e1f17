package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-zk/pkg/service"
)

func NewWorkspaceCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Short:   "Inspect workspaces initialized on this machine",
		Aliases: []string{"ws"},
	}

	cmd.AddCommand(
		newWorkspaceListCmd(svc),
		newWorkspacePruneCmd(svc),
	)

	return requireService(cmd)
}

func newWorkspaceListCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := (*svc).Workspaces()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tVERSION\tLAST USED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\n", e.Path, e.Version, e.LastUsed.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newWorkspacePruneCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Forget workspaces whose marker no longer exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pruned, err := (*svc).PruneWorkspaces()
			if err != nil {
				return err
			}
			for _, e := range pruned {
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %s\n", e.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d workspace(s) pruned\n", len(pruned))
			return nil
		},
	}
}
