package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("EDITOR", "")
	t.Setenv("ZK_EDITOR", "")
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestDefaults(t *testing.T) {
	home := setupHome(t)
	t.Setenv("EDITOR", "nano")

	require.NoError(t, InitConfig(""))
	s := LoadSettings()

	assert.Equal(t, filepath.Join(home, ".local", "share", "zk"), s.DataDir)
	assert.Equal(t, "nano", s.Editor)
	assert.Equal(t, time.Duration(0), s.EditorTimeout)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Empty(t, s.ConfigFile)
}

func TestConfigFileAndEnvironment(t *testing.T) {
	home := setupHome(t)
	t.Setenv("EDITOR", "nano")

	configDir := filepath.Join(home, ".config", "zk")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(
		"editor: hx\neditor_timeout: 90s\nlog_level: info\n"), 0644))

	require.NoError(t, InitConfig(""))
	s := LoadSettings()
	assert.Equal(t, "hx", s.Editor, "config file wins over $EDITOR")
	assert.Equal(t, 90*time.Second, s.EditorTimeout)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, filepath.Join(configDir, "config.yaml"), s.ConfigFile)

	t.Setenv("ZK_EDITOR", "emacs")
	assert.Equal(t, "emacs", LoadSettings().Editor, "ZK_EDITOR wins over the config file")
}

func TestExplicitConfigFileMustExist(t *testing.T) {
	home := setupHome(t)

	err := InitConfig(filepath.Join(home, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger("", false, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger, err = NewLogger("info", true, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.Debug("hello")
	assert.Contains(t, buf.String(), "hello")

	_, err = NewLogger("loud", false, &buf)
	assert.Error(t, err)
}

func TestInitService(t *testing.T) {
	setupHome(t)
	logger, err := NewLogger("", false, &bytes.Buffer{})
	require.NoError(t, err)

	svc, err := InitService(Settings{DataDir: t.TempDir(), Editor: "nano"}, logger)
	require.NoError(t, err)
	defer svc.Close()

	assert.NotNil(t, svc.Registry)
	assert.Equal(t, "nano", svc.Config.Editor)
}

func TestSettingsYAML(t *testing.T) {
	s := Settings{DataDir: "/data", Editor: "hx", EditorTimeout: 90 * time.Second, LogLevel: "warn"}

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "data_dir: /data\neditor: hx\neditor_timeout: 1m30s\nlog_level: warn\n", string(out))
}
