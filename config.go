package mktree

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	configDirName  = "mktree"
	configFileName = "config.json"
)

// Config holds persisted preferences. Fields tagged "-" only live for one
// invocation and are filled from flags.
type Config struct {
	OutDir      string `json:"outDir"`
	IndentWidth int    `json:"indentWidth"`
	Enhanced    bool   `json:"enhanced"`
	InferDirs   bool   `json:"inferDirs"`
	NoAnimation bool   `json:"noAnimation"`
	CatalogPath string `json:"catalogPath"`
	Theme       string `json:"theme"`

	Input   string `json:"-"`
	DryRun  bool   `json:"-"`
	Open    bool   `json:"-"`
	Verbose bool   `json:"-"`
}

type fileConfig struct {
	OutDir      *string `json:"outDir"`
	IndentWidth *int    `json:"indentWidth"`
	Enhanced    *bool   `json:"enhanced"`
	InferDirs   *bool   `json:"inferDirs"`
	NoAnimation *bool   `json:"noAnimation"`
	CatalogPath *string `json:"catalogPath"`
	Theme       *string `json:"theme"`
}

func DefaultConfig() Config {
	return Config{
		OutDir:      ".",
		IndentWidth: DefaultIndentWidth,
		Theme:       "dark",
	}
}

func (c Config) ParseOptions() ParseOptions {
	return ParseOptions{IndentWidth: c.IndentWidth, InferDirs: c.InferDirs}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// LoadConfig reads the user config, falling back to defaults when the
// file does not exist.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFile(path)
}

func LoadConfigFile(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, err
	}
	var stored fileConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return config, err
	}
	return mergeConfig(config, stored), nil
}

func SaveConfig(config Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigFile(path, config)
}

func SaveConfigFile(path string, config Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.OutDir != nil && *stored.OutDir != "" {
		merged.OutDir = *stored.OutDir
	}
	if stored.IndentWidth != nil && *stored.IndentWidth > 0 {
		merged.IndentWidth = *stored.IndentWidth
	}
	if stored.Enhanced != nil {
		merged.Enhanced = *stored.Enhanced
	}
	if stored.InferDirs != nil {
		merged.InferDirs = *stored.InferDirs
	}
	if stored.NoAnimation != nil {
		merged.NoAnimation = *stored.NoAnimation
	}
	if stored.CatalogPath != nil {
		merged.CatalogPath = *stored.CatalogPath
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	return merged
}
