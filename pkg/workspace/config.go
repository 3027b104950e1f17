package workspace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// MarkerFile is the name of the file that makes a directory a workspace root.
	MarkerFile = ".zk.json"

	// MarkerVersion is the marker schema version written by Initialize.
	MarkerVersion = 1
)

// Marker represents the contents of .zk.json
type Marker struct {
	Version    int            `json:"version" yaml:"version"`
	Extensions map[string]any `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// MarkerEncoder serializes a marker onto w.
type MarkerEncoder func(w io.Writer, m *Marker) error

// DefaultMarker returns the configuration written into a fresh workspace.
func DefaultMarker() *Marker {
	return &Marker{Version: MarkerVersion}
}

// EncodeMarker writes m as indented JSON.
func EncodeMarker(w io.Writer, m *Marker) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// MarkerPath returns the marker location inside root.
func MarkerPath(root Root) string {
	return filepath.Join(string(root), MarkerFile)
}

// ReadMarker loads the marker of a workspace root.
func ReadMarker(root Root) (*Marker, error) {
	data, err := os.ReadFile(MarkerPath(root))
	if err != nil {
		return nil, fmt.Errorf("read marker: %w", err)
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrSerialization, MarkerPath(root), err)
	}
	return &m, nil
}

// HasMarker reports whether dir directly contains a marker file.
func HasMarker(dir string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat marker: %w", err)
}
