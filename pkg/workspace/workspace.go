package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-zk/internal/fsutil"
)

var (
	// ErrNotFound is returned when the inspected directory has no marker file.
	ErrNotFound = errors.New("no workspace here")

	// ErrCannotLocate is returned when a workspace path cannot be made canonical.
	ErrCannotLocate = errors.New("cannot find zk directory")

	// ErrSerialization is returned when the marker content cannot be encoded or decoded.
	ErrSerialization = errors.New("marker serialization failed")
)

// Root is an absolute, canonical workspace directory.
type Root string

// String returns the root path.
func (r Root) String() string {
	return string(r)
}

// Join places name under the root directory.
func (r Root) Join(name string) string {
	return filepath.Join(string(r), name)
}

// Resolver finds and initializes workspace roots.
type Resolver struct {
	getwd  func() (string, error)
	encode MarkerEncoder
	remove func(string) error
	logger *logrus.Entry
}

// Option configures a Resolver
type Option func(*Resolver)

// WithWorkingDir replaces the current directory lookup.
func WithWorkingDir(getwd func() (string, error)) Option {
	return func(r *Resolver) {
		r.getwd = getwd
	}
}

// WithMarkerEncoder replaces the marker serializer.
func WithMarkerEncoder(encode MarkerEncoder) Option {
	return func(r *Resolver) {
		r.encode = encode
	}
}

// WithRemove replaces the function used to delete the temp file of a failed marker write.
func WithRemove(remove func(string) error) Option {
	return func(r *Resolver) {
		r.remove = remove
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *logrus.Entry) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver operating on the real filesystem.
func NewResolver(opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Resolver{
		getwd:  os.Getwd,
		encode: EncodeMarker,
		remove: os.Remove,
		logger: logrus.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveExisting returns the workspace root for this invocation.
//
// An explicit path is trusted as-is and only made absolute. Without one, the
// current directory is used and must directly contain the marker file; parent
// directories are never searched.
func (r *Resolver) ResolveExisting(explicit string) (Root, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrCannotLocate, explicit, err)
		}
		r.logger.WithField("root", abs).Debug("Using explicit workspace root")
		return Root(abs), nil
	}

	wd, err := r.getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCannotLocate, err)
	}

	root, err := canonicalize(wd)
	if err != nil {
		return "", err
	}

	ok, err := HasMarker(string(root))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s", ErrNotFound, root, MarkerFile)
	}

	r.logger.WithField("root", root).Debug("Resolved workspace root")
	return root, nil
}

// Initialize creates (if needed) and marks a workspace directory.
//
// An existing directory is not an error. The marker is always rewritten, so a
// second call replaces the previous configuration. Concurrent initializations
// of the same directory are not coordinated.
func (r *Resolver) Initialize(explicit string) (Root, error) {
	dir := explicit
	if explicit != "" {
		if err := os.Mkdir(explicit, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create workspace directory: %w", err)
		}
	} else {
		wd, err := r.getwd()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrCannotLocate, err)
		}
		dir = wd
	}

	root, err := canonicalize(dir)
	if err != nil {
		return "", err
	}

	if err := r.writeMarker(root, DefaultMarker()); err != nil {
		return "", err
	}

	r.logger.WithField("root", root).Debug("Initialized workspace")
	return root, nil
}

// writeMarker replaces the marker in root through a temp file and rename, so
// a failed write leaves any previous marker untouched.
func (r *Resolver) writeMarker(root Root, m *Marker) error {
	path := MarkerPath(root)

	err := fsutil.WriteAtomic(path, 0644, func(w io.Writer) error {
		if err := r.encode(w, m); err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrSerialization, path, err)
		}
		return nil
	}, r.remove)
	if err != nil {
		r.logger.WithError(err).WithField("path", path).Debug("Marker not written")
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

// canonicalize returns the absolute path of dir with symlinks resolved.
func canonicalize(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCannotLocate, dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCannotLocate, dir, err)
	}
	return Root(resolved), nil
}

// ResolveExisting resolves a workspace root with the default resolver.
func ResolveExisting(explicit string) (Root, error) {
	return NewResolver().ResolveExisting(explicit)
}

// Initialize initializes a workspace root with the default resolver.
func Initialize(explicit string) (Root, error) {
	return NewResolver().Initialize(explicit)
}
