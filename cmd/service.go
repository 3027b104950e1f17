package cmd

import "github.com/spf13/cobra"

// serviceAnnotation marks commands that run against the note service.
const serviceAnnotation = "zk:service"

func requireService(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[serviceAnnotation] = "true"
	return cmd
}

// NeedsService reports whether cmd or one of its parents works on the note
// service. Commands such as version and config run without opening it.
func NeedsService(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[serviceAnnotation]; ok {
			return true
		}
	}
	return false
}
