package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-zk/pkg/service"
	"github.com/mattsolo1/grove-zk/pkg/workspace"
)

func NewNewCmd(svc **service.Service, workspaceOverride *string) *cobra.Command {
	var (
		noteName    string
		noteRoot    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new note",
		Long: `Create <title>.md in the workspace.

The note starts as "# <title>". With --interactive the editor from ZK_EDITOR,
the config file or $EDITOR (vim if none) opens on a temporary copy first and
whatever is saved becomes the note. An existing note with the same name is
replaced.

Examples:
  zk new -n "Foo"                 # Writes Foo.md containing "# Foo"
  zk new -n "Foo" -i              # Edit the note before saving
  zk new -n "Foo" -r ~/zettel     # Use another workspace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			explicit := *workspaceOverride
			if noteRoot != "" {
				explicit = noteRoot
			}

			root, err := s.ResolveWorkspace(explicit)
			if errors.Is(err, workspace.ErrNotFound) {
				return fmt.Errorf("%w (run 'zk init' or pass --root)", err)
			}
			if err != nil {
				return err
			}

			note, err := s.CreateNote(cmd.Context(), noteName, interactive, root)
			if err != nil {
				return fmt.Errorf("create note: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", note.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&noteName, "name", "n", "", "Note name/title")
	cmd.Flags().StringVarP(&noteRoot, "root", "r", "", "Workspace root to create the note in")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Write the note in an editor")
	_ = cmd.MarkFlagRequired("name")

	return requireService(cmd)
}
