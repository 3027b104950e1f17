package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-zk/internal/fsutil"
	"github.com/mattsolo1/grove-zk/pkg/editor"
	"github.com/mattsolo1/grove-zk/pkg/models"
	"github.com/mattsolo1/grove-zk/pkg/workspace"
)

// Editor produces note content interactively
type Editor interface {
	Edit(ctx context.Context, seed string) (string, error)
}

// Service is the core note service
type Service struct {
	Resolver *workspace.Resolver
	Registry *workspace.Registry
	Editor   Editor
	Config   *Config
	Logger   *logrus.Entry
}

// Config holds service configuration
type Config struct {
	DataDir       string
	Editor        string
	EditorTimeout time.Duration
}

// New creates a new note service. A registry that cannot be opened is logged
// and skipped; workspaces and notes work without it.
func New(config *Config, logger *logrus.Entry) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("service config is required")
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = logrus.NewEntry(discard)
	}

	s := &Service{
		Resolver: workspace.NewResolver(workspace.WithLogger(logger.WithField("component", "workspace"))),
		Editor: editor.New(config.Editor,
			editor.WithTimeout(config.EditorTimeout),
			editor.WithLogger(logger.WithField("component", "editor")),
		),
		Config: config,
		Logger: logger,
	}

	if config.DataDir != "" {
		registry, err := workspace.NewRegistry(config.DataDir)
		if err != nil {
			logger.WithError(err).Warn("Workspace registry unavailable")
		} else {
			s.Registry = registry
		}
	}

	return s, nil
}

// InitWorkspace initializes a workspace and records it in the registry.
func (s *Service) InitWorkspace(explicit string) (workspace.Root, error) {
	root, err := s.Resolver.Initialize(explicit)
	if err != nil {
		return "", err
	}

	if s.Registry != nil {
		if err := s.Registry.Add(root, workspace.MarkerVersion); err != nil {
			s.Logger.WithError(err).WithField("root", root).Warn("Failed to register workspace")
		}
	}
	return root, nil
}

// ResolveWorkspace returns the workspace root for an optional override.
func (s *Service) ResolveWorkspace(explicit string) (workspace.Root, error) {
	return s.Resolver.ResolveExisting(explicit)
}

// Draft builds the content of a new note. Interactive drafts go through the
// editor seeded with the default body; editor errors are returned as-is.
func (s *Service) Draft(ctx context.Context, title string, interactive bool) (models.NoteDraft, error) {
	draft := models.NoteDraft{Title: title, Body: DefaultBody(title)}
	if !interactive {
		return draft, nil
	}

	body, err := s.Editor.Edit(ctx, draft.Body)
	if err != nil {
		return models.NoteDraft{}, err
	}
	draft.Body = body
	return draft, nil
}

// CreateNote writes a new note named after title into root, replacing any
// note of the same name.
func (s *Service) CreateNote(ctx context.Context, title string, interactive bool, root workspace.Root) (*models.Note, error) {
	draft, err := s.Draft(ctx, title, interactive)
	if err != nil {
		return nil, err
	}

	notePath := NotePath(root, draft)
	if err := fsutil.WriteFileAtomic(notePath, []byte(draft.Body), 0644); err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}

	s.Logger.WithFields(logrus.Fields{
		"path":        notePath,
		"interactive": interactive,
	}).Debug("Wrote note")

	s.recordUse(root)

	return &models.Note{
		Path:       notePath,
		Title:      title,
		Workspace:  root.String(),
		Content:    draft.Body,
		ModifiedAt: time.Now(),
		WordCount:  countWords(draft.Body),
	}, nil
}

// recordUse marks root as used in the registry. A workspace initialized before
// the registry existed is registered from its marker.
func (s *Service) recordUse(root workspace.Root) {
	if s.Registry == nil {
		return
	}
	log := s.Logger.WithField("root", root)

	_, err := s.Registry.Get(root)
	switch {
	case err == nil:
		if err := s.Registry.Touch(root); err != nil {
			log.WithError(err).Debug("Workspace not touched in registry")
		}
		return
	case !errors.Is(err, workspace.ErrNotFound):
		log.WithError(err).Debug("Registry lookup failed")
		return
	}

	marker, err := workspace.ReadMarker(root)
	if err != nil {
		log.WithError(err).Debug("Not registering workspace without a readable marker")
		return
	}
	if err := s.Registry.Add(root, marker.Version); err != nil {
		log.WithError(err).Warn("Failed to register workspace")
	}
}

// Workspaces lists registered workspaces.
func (s *Service) Workspaces() ([]*workspace.Entry, error) {
	if s.Registry == nil {
		return nil, fmt.Errorf("workspace registry is not available")
	}
	return s.Registry.List()
}

// PruneWorkspaces drops registered workspaces whose marker is gone.
func (s *Service) PruneWorkspaces() ([]*workspace.Entry, error) {
	if s.Registry == nil {
		return nil, fmt.Errorf("workspace registry is not available")
	}
	return s.Registry.Prune()
}

// Close closes the service
func (s *Service) Close() error {
	if s.Registry != nil {
		if err := s.Registry.Close(); err != nil {
			return err
		}
	}
	return nil
}
