package models

import "time"

// NoteExtension is the file extension of persisted notes.
const NoteExtension = ".md"

// NoteDraft is a note that has not been written to disk yet
type NoteDraft struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FileName returns the file name the draft is stored under.
func (d NoteDraft) FileName() string {
	return d.Title + NoteExtension
}

// Note represents a note file inside a workspace
type Note struct {
	Path       string    `json:"path" yaml:"path"`
	Title      string    `json:"title" yaml:"title"`
	Workspace  string    `json:"workspace" yaml:"workspace"`
	Content    string    `json:"content,omitempty" yaml:"content,omitempty"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
	WordCount  int       `json:"word_count" yaml:"word_count"`
}
