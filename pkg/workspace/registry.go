package workspace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is a registered workspace root
type Entry struct {
	Path      string    `yaml:"path" json:"path"`
	Version   int       `yaml:"version" json:"version"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
	LastUsed  time.Time `yaml:"last_used" json:"last_used"`
}

// Registry records the workspaces initialized on this machine
type Registry struct {
	db *sql.DB
}

// NewRegistry opens (or creates) the registry database in dataDir
func NewRegistry(dataDir string) (*Registry, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "workspaces.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &Registry{db: db}

	if err := r.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize registry: %w", err)
	}

	return r, nil
}

// init creates the database schema
func (r *Registry) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workspaces (
		path TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_workspaces_last_used ON workspaces(last_used);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Add records root. Re-adding an existing root keeps its creation time.
func (r *Registry) Add(root Root, version int) error {
	if root == "" {
		return fmt.Errorf("workspace path cannot be empty")
	}

	query := `
	INSERT INTO workspaces (path, version, created_at, last_used)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET version = excluded.version, last_used = excluded.last_used
	`

	now := time.Now()
	_, err := r.db.Exec(query, string(root), version, now, now)
	return err
}

// Get retrieves the entry for root
func (r *Registry) Get(root Root) (*Entry, error) {
	query := `
	SELECT path, version, created_at, last_used
	FROM workspaces WHERE path = ?
	`

	e := &Entry{}
	err := r.db.QueryRow(query, string(root)).Scan(&e.Path, &e.Version, &e.CreatedAt, &e.LastUsed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s is not registered", ErrNotFound, root)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all registered workspaces, most recently used first
func (r *Registry) List() ([]*Entry, error) {
	query := `
	SELECT path, version, created_at, last_used
	FROM workspaces ORDER BY last_used DESC, path ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.Path, &e.Version, &e.CreatedAt, &e.LastUsed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Touch updates the last used timestamp of root
func (r *Registry) Touch(root Root) error {
	res, err := r.db.Exec(
		"UPDATE workspaces SET last_used = ? WHERE path = ?",
		time.Now(), string(root),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s is not registered", ErrNotFound, root)
	}
	return nil
}

// Remove removes root from the registry
func (r *Registry) Remove(root Root) error {
	_, err := r.db.Exec("DELETE FROM workspaces WHERE path = ?", string(root))
	return err
}

// Prune removes entries whose directory no longer holds a marker and returns them.
func (r *Registry) Prune() ([]*Entry, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	var pruned []*Entry
	for _, e := range entries {
		ok, err := HasMarker(e.Path)
		if err != nil || ok {
			continue
		}
		if err := r.Remove(Root(e.Path)); err != nil {
			return pruned, fmt.Errorf("remove %s: %w", e.Path, err)
		}
		pruned = append(pruned, e)
	}
	return pruned, nil
}

// Close closes the registry database
func (r *Registry) Close() error {
	return r.db.Close()
}
