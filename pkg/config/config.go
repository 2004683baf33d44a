// Package config layers the CLI settings: command-line flags, HYPERINDEX_*
// environment variables (optionally from a .env file) and the user config
// file under the XDG config directory, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/pavlovdog/hyperindex/pkg/logging"
)

const (
	AppName   = "hyperindex"
	EnvPrefix = "HYPERINDEX"

	fileName = "config"
	fileType = "yaml"
)

// Keys of the settings. Flags use the same names.
const (
	KeyLogType      = "log-type"
	KeyLogLevel     = "log-level"
	KeyDirectory    = "directory"
	KeyGeneratedDir = "output-directory"
	KeyConfigFile   = "config"
	KeyContextFile  = "context-file"
)

// Settings are the resolved CLI settings.
type Settings struct {
	LogType      string `mapstructure:"log-type"`
	LogLevel     string `mapstructure:"log-level"`
	Directory    string `mapstructure:"directory"`
	GeneratedDir string `mapstructure:"output-directory"`
	ConfigFile   string `mapstructure:"config"`
	ContextFile  string `mapstructure:"context-file"`
}

// Paths resolves the project paths the settings point at.
func (s *Settings) Paths() (api.ProjectPaths, error) {
	return api.NewProjectPaths(s.Directory, s.GeneratedDir, s.ConfigFile)
}

// Dir returns the user config directory ($XDG_CONFIG_HOME/hyperindex).
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// FilePath returns the user config file path.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// LoadDotenv loads dir/.env into the environment without overriding
// variables that are already set. It reports whether a file was found.
func LoadDotenv(dir string) (bool, error) {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("loading .env: %w", err)
	}
	return true, nil
}

// New creates a viper instance with defaults, the user config file, the
// environment and the flags of cmd bound.
func New(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyLogType, logging.Tint)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDirectory, ".")
	v.SetDefault(KeyGeneratedDir, api.DefaultGeneratedDir)
	v.SetDefault(KeyConfigFile, api.DefaultConfigFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("reading user config %s: %w", FilePath(), err)
	}

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}
	return v, nil
}

// Load resolves the settings from v.
func Load(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return &s, nil
}

// Set writes key=value to the user config file, creating it if needed.
func Set(key, value string) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", Dir(), err)
	}

	v := viper.New()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return fmt.Errorf("reading user config: %w", err)
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(FilePath()); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
