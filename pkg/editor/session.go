// Package editor runs an external interactive editor against a temporary file
// and returns what the user saved.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultCommand is launched when no editor is configured.
const DefaultCommand = "vim"

// ErrEditorFailed is returned when the editor exits with a non-zero status.
var ErrEditorFailed = errors.New("editor exited with an error")

// Session launches an editor program for one file at a time.
type Session struct {
	command string
	tempDir string
	timeout time.Duration
	now     func() (time.Time, error)
	pid     func() int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger *logrus.Entry
}

// Option configures a Session
type Option func(*Session)

// WithTempDir sets the directory temporary files are created in.
func WithTempDir(dir string) Option {
	return func(s *Session) {
		s.tempDir = dir
	}
}

// WithTimeout bounds how long the editor may run. Zero waits forever.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithClock replaces the time source used to name temporary files.
func WithClock(now func() (time.Time, error)) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithStdio replaces the streams handed to the editor process.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Session) {
		s.stdin = stdin
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a session for command, falling back to DefaultCommand.
func New(command string, opts ...Option) *Session {
	if command == "" {
		command = DefaultCommand
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Session{
		command: command,
		tempDir: os.TempDir(),
		now:     func() (time.Time, error) { return time.Now(), nil },
		pid:     os.Getpid,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  logrus.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Command returns the program the session launches.
func (s *Session) Command() string {
	return s.command
}

// Edit seeds a temporary file with seed, lets the user edit it and returns the
// saved content.
func (s *Session) Edit(ctx context.Context, seed string) (string, error) {
	return s.run(ctx, &seed)
}

// EditBlank is like Edit but the editor starts without a file on disk.
func (s *Session) EditBlank(ctx context.Context) (string, error) {
	return s.run(ctx, nil)
}

func (s *Session) run(ctx context.Context, seed *string) (content string, err error) {
	path, err := s.tempPath()
	if err != nil {
		return "", err
	}

	// A file already at path belongs to another session; leave it alone.
	if seed != nil {
		if err := writeSeed(path, *seed); err != nil {
			return "", err
		}
	} else if _, err := os.Lstat(path); err == nil {
		return "", fmt.Errorf("create temp file %s: %w", path, fs.ErrExist)
	}

	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("remove temp file: %w", rmErr))
			content = ""
		}
	}()

	if err := s.launch(ctx, path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(data), nil
}

// tempPath names the temporary file after the process id and the current time.
func (s *Session) tempPath() (string, error) {
	now, err := s.now()
	if err != nil {
		return "", fmt.Errorf("read clock: %w", err)
	}
	return filepath.Join(s.tempDir, fmt.Sprintf("%d_%d", s.pid(), now.Unix())), nil
}

func writeSeed(path, seed string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	_, err = io.WriteString(f, seed)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("write temp file: %w", err)
	}
	return nil
}

// launch runs the editor with path as its only argument and waits for it.
func (s *Session) launch(ctx context.Context, path string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.command, path)
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	s.logger.WithFields(logrus.Fields{
		"editor": s.command,
		"path":   path,
	}).Debug("Launching editor")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return fmt.Errorf("%w: %s: %w", ErrEditorFailed, s.command, err)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("run editor %s: %w", s.command, ctx.Err())
		}
		return fmt.Errorf("run editor %s: %w", s.command, err)
	}
	return nil
}
