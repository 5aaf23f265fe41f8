// Package config loads the CLI-level configuration file (mont.yaml):
// global tool paths and defaults layered above the per-graph config.yml
// that internal/settings validates against a loaded graph.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// configBaseName is the shared root of every mont.yaml lookup: the local
// project file, the global XDG file, and viper's SetConfigName all derive
// from it so the three never drift apart the way a literal copy would.
const configBaseName = "mont"

var (
	getEnv      = os.Getenv
	userHomeDir = os.UserHomeDir
)

// Config holds the CLI-level mont configuration: tool paths and defaults
// for the out-of-core collaborators in internal/cliutil.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Picker  PickerConfig  `mapstructure:"picker"`
	Tempdir TempdirConfig `mapstructure:"tempdir"`
}

// EditorConfig holds the interactive editor invocation.
type EditorConfig struct {
	Command string `mapstructure:"command"`
}

// PickerConfig holds the interactive fuzzy-picker invocation.
type PickerConfig struct {
	Command string `mapstructure:"command"`
}

// TempdirConfig holds the scoped temp-file suffix used for multi-edit
// round trips, distinguishing concurrent mont invocations.
type TempdirConfig struct {
	Suffix string `mapstructure:"suffix"`
}

// GlobalConfigPath resolves the global mont.yaml path using XDG
// conventions, sharing configBaseName with LoadConfig/LoadConfigWithFile so
// the local-file check, the viper config name, and the global fallback
// path all name the same file.
func GlobalConfigPath() (string, error) {
	if xdgHome := getEnv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, configBaseName, configBaseName+".yaml"), nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(homeDir, ".config", configBaseName, configBaseName+".yaml"), nil
}

// LoadConfigWithFile loads configuration from a specific file if provided,
// otherwise falls back to LoadConfig with the working directory.
func LoadConfigWithFile(workDir, configFile string) (*Config, error) {
	if configFile != "" {
		return LoadConfigFromPath(configFile)
	}

	localPath := filepath.Join(workDir, configBaseName+".yaml")
	if _, err := os.Stat(localPath); err == nil {
		return LoadConfig(workDir)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	globalPath, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(globalPath)
}

// LoadConfig loads configuration from mont.yaml in the given directory.
// If no config file exists, sensible defaults are returned.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFromPath loads configuration from a specific file path.
func LoadConfigFromPath(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			if err := v.Unmarshal(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("editor.command", "")
	v.SetDefault("picker.command", "fzf")
	v.SetDefault("tempdir.suffix", configBaseName)
}
