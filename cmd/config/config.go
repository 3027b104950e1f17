package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-zk/pkg/service"
)

// Settings is the effective configuration of one invocation
type Settings struct {
	DataDir       string        `yaml:"data_dir"`
	Editor        string        `yaml:"editor"`
	EditorTimeout time.Duration `yaml:"editor_timeout"`
	LogLevel      string        `yaml:"log_level"`
	ConfigFile    string        `yaml:"config_file,omitempty"`
}

// MarshalYAML renders the timeout as a duration string instead of nanoseconds.
func (s Settings) MarshalYAML() (any, error) {
	return struct {
		DataDir       string `yaml:"data_dir"`
		Editor        string `yaml:"editor"`
		EditorTimeout string `yaml:"editor_timeout"`
		LogLevel      string `yaml:"log_level"`
		ConfigFile    string `yaml:"config_file,omitempty"`
	}{s.DataDir, s.Editor, s.EditorTimeout.String(), s.LogLevel, s.ConfigFile}, nil
}

// InitConfig loads $HOME/.config/zk/config.yaml (or cfgFile) and ZK_* environment
// variables into viper. A missing default config file is not an error.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "zk"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ZK")

	// Set defaults
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("editor", os.Getenv("EDITOR"))
	viper.SetDefault("editor_timeout", "0s")
	viper.SetDefault("log_level", "warn")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// LoadSettings returns the settings currently held by viper
func LoadSettings() Settings {
	return Settings{
		DataDir:       viper.GetString("data_dir"),
		Editor:        viper.GetString("editor"),
		EditorTimeout: viper.GetDuration("editor_timeout"),
		LogLevel:      viper.GetString("log_level"),
		ConfigFile:    viper.ConfigFileUsed(),
	}
}

// NewLogger builds the stderr logger. verbose forces debug output.
func NewLogger(level string, verbose bool, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	lvl := logrus.WarnLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	return logger, nil
}

// InitService creates the note service from settings
func InitService(settings Settings, logger *logrus.Logger) (*service.Service, error) {
	config := &service.Config{
		DataDir:       settings.DataDir,
		Editor:        settings.Editor,
		EditorTimeout: settings.EditorTimeout,
	}

	entry := logrus.NewEntry(logger).WithField("app", "zk")
	svc, err := service.New(config, entry)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "zk")
}
