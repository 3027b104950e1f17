package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-zk/pkg/service"
)

func NewInitCmd(svc **service.Service, workspaceOverride *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a zk workspace",
		Long: `Initialize a zk workspace by writing a .zk.json marker.

Without a path the current directory (or --zk-directory) is used. A missing
directory is created. Running init again rewrites the marker.

Examples:
  zk init                # Mark the current directory
  zk init ~/zettel       # Create and mark ~/zettel`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			target := *workspaceOverride
			if len(args) > 0 {
				target = args[0]
			}

			root, err := s.InitWorkspace(target)
			if err != nil {
				return fmt.Errorf("initialize workspace: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized zk workspace in %s\n", root)
			return nil
		},
	}

	return requireService(cmd)
}
