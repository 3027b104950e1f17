package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-zk/pkg/service"
)

func NewListCmd(svc **service.Service, workspaceOverride *string) *cobra.Command {
	var listJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List notes in the workspace",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			root, err := s.ResolveWorkspace(*workspaceOverride)
			if err != nil {
				return err
			}

			notes, err := s.ListNotes(root)
			if err != nil {
				return err
			}

			if listJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(notes)
			}

			if len(notes) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No notes in %s\n", root)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tWORDS\tMODIFIED\tPATH")
			for _, note := range notes {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					note.Title, note.WordCount, note.ModifiedAt.Format("2006-01-02 15:04"), note.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")

	return requireService(cmd)
}
