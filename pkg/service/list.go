package service

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-zk/pkg/models"
	"github.com/mattsolo1/grove-zk/pkg/workspace"
)

// ListNotes returns the notes stored directly in root, sorted by file name.
func (s *Service) ListNotes(root workspace.Root) ([]*models.Note, error) {
	entries, err := os.ReadDir(root.String())
	if err != nil {
		return nil, fmt.Errorf("read workspace: %w", err)
	}

	var notes []*models.Note
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, models.NoteExtension) {
			continue
		}

		path := root.Join(name)
		info, err := entry.Info()
		if err != nil {
			s.Logger.WithError(err).WithField("path", path).Debug("Skipping note")
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			s.Logger.WithError(err).WithField("path", path).Debug("Skipping note")
			continue
		}

		title := extractTitle(string(content))
		if title == "" {
			title = humanizeStem(strings.TrimSuffix(name, models.NoteExtension))
		}

		notes = append(notes, &models.Note{
			Path:       path,
			Title:      title,
			Workspace:  root.String(),
			ModifiedAt: info.ModTime(),
			WordCount:  countWords(string(content)),
		})
	}
	return notes, nil
}

// humanizeStem turns a file stem like "reading-list_2025" into "Reading List 2025".
func humanizeStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		words[i] = cases.Title(language.English).String(strings.ToLower(word))
	}
	return strings.Join(words, " ")
}
