package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-zk/pkg/workspace"
)

// runZK executes the root command with args and returns stdout.
func runZK(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out, _, err := runCLI(newCLI(), args...)
	return out, err
}

// runCLI executes c with args and returns stdout and stderr.
func runCLI(c *cli, args ...string) (string, string, error) {
	viper.Reset()

	var stdout, stderr bytes.Buffer
	c.root.SetOut(&stdout)
	c.root.SetErr(&stderr)
	c.root.SetArgs(args)

	err := c.execute()
	return stdout.String(), stderr.String(), err
}

// isolate points HOME and the data dir at a temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	home, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("HOME", home)
	t.Setenv("ZK_DATA_DIR", filepath.Join(home, "data"))
	t.Setenv("ZK_EDITOR", "")
	t.Setenv("EDITOR", "")
	t.Cleanup(viper.Reset)
	return home
}

func TestInitAndNew(t *testing.T) {
	home := isolate(t)
	zettel := filepath.Join(home, "zettel")

	out, err := runZK(t, "init", zettel)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized zk workspace in "+zettel)
	assert.FileExists(t, filepath.Join(zettel, workspace.MarkerFile))

	// Running init again is fine
	_, err = runZK(t, "init", zettel)
	require.NoError(t, err)

	out, err = runZK(t, "new", "--name", "Foo", "--root", zettel)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(zettel, "Foo.md"))

	data, err := os.ReadFile(filepath.Join(zettel, "Foo.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Foo", string(data))
}

func TestNewUsesGlobalOverride(t *testing.T) {
	home := isolate(t)
	zettel := filepath.Join(home, "zettel")

	_, err := runZK(t, "-d", zettel, "init")
	require.NoError(t, err)

	_, err = runZK(t, "-d", zettel, "new", "-n", "Bar")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(zettel, "Bar.md"))
}

func TestNewFromCurrentDirectory(t *testing.T) {
	home := isolate(t)
	chdirT(t, home)

	_, err := runZK(t, "new", "-n", "Foo")
	require.Error(t, err)
	assert.ErrorIs(t, err, workspace.ErrNotFound)
	assert.Contains(t, err.Error(), "zk init")

	_, err = runZK(t, "init")
	require.NoError(t, err)

	_, err = runZK(t, "new", "-n", "Foo")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "Foo.md"))
}

func TestNewInteractive(t *testing.T) {
	home := isolate(t)
	zettel := filepath.Join(home, "zettel")

	script := filepath.Join(home, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf '%s' 'edited' > \"$1\"\n"), 0755))
	t.Setenv("ZK_EDITOR", script)

	_, err := runZK(t, "init", zettel)
	require.NoError(t, err)

	_, err = runZK(t, "new", "-n", "Foo", "-r", zettel, "--interactive")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(zettel, "Foo.md"))
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))
}

func TestNewRequiresName(t *testing.T) {
	isolate(t)

	_, err := runZK(t, "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestListAndWorkspaces(t *testing.T) {
	home := isolate(t)
	zettel := filepath.Join(home, "zettel")

	_, err := runZK(t, "init", zettel)
	require.NoError(t, err)
	_, err = runZK(t, "new", "-n", "Foo", "-r", zettel)
	require.NoError(t, err)

	out, err := runZK(t, "-d", zettel, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Foo")

	out, err = runZK(t, "workspace", "list")
	require.NoError(t, err)
	assert.Contains(t, out, zettel)

	require.NoError(t, os.Remove(filepath.Join(zettel, workspace.MarkerFile)))
	out, err = runZK(t, "workspace", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned "+zettel)
}

func TestConfigAndVersion(t *testing.T) {
	home := isolate(t)
	t.Setenv("ZK_EDITOR", "hx")

	out, err := runZK(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "editor: hx")
	assert.Contains(t, out, "data_dir: "+filepath.Join(home, "data"))

	out, err = runZK(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "zk "))
}

func TestFailingCommandClosesService(t *testing.T) {
	home := isolate(t)
	chdirT(t, home)

	c := newCLI()
	_, _, err := runCLI(c, "new", "-n", "Foo")
	require.ErrorIs(t, err, workspace.ErrNotFound)
	require.NotNil(t, c.svc)

	_, err = c.svc.Workspaces()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}

func TestVersionAndConfigSkipService(t *testing.T) {
	home := isolate(t)

	c := newCLI()
	_, _, err := runCLI(c, "version")
	require.NoError(t, err)
	assert.Nil(t, c.svc)

	c = newCLI()
	_, _, err = runCLI(c, "config")
	require.NoError(t, err)
	assert.Nil(t, c.svc)

	assert.NoDirExists(t, filepath.Join(home, "data"))
}
