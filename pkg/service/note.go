package service

import (
	"strings"

	"github.com/mattsolo1/grove-zk/pkg/models"
	"github.com/mattsolo1/grove-zk/pkg/workspace"
)

// DefaultBody is the content of a note before anyone edits it
func DefaultBody(title string) string {
	return "# " + title
}

// NotePath returns where draft is stored. The workspace root is always the base
// directory and the note file name is appended to it.
func NotePath(root workspace.Root, draft models.NoteDraft) string {
	return root.Join(draft.FileName())
}

// extractTitle gets the title from markdown content
func extractTitle(content string) string {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// countWords counts words in content
func countWords(content string) int {
	return len(strings.Fields(content))
}
