// Package config owns the offcontext configuration file and the discovery of
// initialized projects. Configuration lives as YAML under the .off-context
// directory, either globally in the user's home or per project. Commands never
// look project state up ambiently mid-call; they resolve a Project handle once
// at the entry point and thread it through explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the directory that marks an initialized project and holds
	// its configuration and conversation store.
	DirName = ".off-context"

	// FileName is the configuration file name inside DirName.
	FileName = "config.yaml"

	// StoreDirName is the directory inside DirName holding the persisted
	// conversation snapshot.
	StoreDirName = "store"
)

// Config is the full offcontext configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Context    ContextConfig    `yaml:"context"`
	Hooks      HooksConfig      `yaml:"hooks"`
}

// DatabaseConfig locates the conversation store on disk.
type DatabaseConfig struct {
	// Path is the directory the snapshot file lives in.
	Path string `yaml:"path"`
	// Collection names the snapshot file (without extension).
	Collection string `yaml:"collection"`
}

// EmbeddingsConfig describes the reserved vector retrieval backend. The
// current search is purely lexical; these settings are surfaced in status
// output only.
type EmbeddingsConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// ContextConfig bounds search and injection.
type ContextConfig struct {
	MaxResults         int     `yaml:"max_results"`
	MaxTokens          int     `yaml:"max_tokens"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
}

// HooksConfig toggles the automatic capture and injection paths.
type HooksConfig struct {
	Enabled    bool `yaml:"enabled"`
	AutoInject bool `yaml:"auto_inject"`
}

// Default returns the configuration used when no file exists yet. The
// database path is left relative to whichever scope (global or project) the
// config ends up attached to; see Project.LoadConfig and GlobalConfig.
func Default() Config {
	return Config{
		Database: DatabaseConfig{
			Collection: "conversations",
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "simple",
			Model:     "nomic-embed-text",
			Dimension: 384,
		},
		Context: ContextConfig{
			MaxResults:         5,
			MaxTokens:          2000,
			RelevanceThreshold: 0,
		},
		Hooks: HooksConfig{
			Enabled:    true,
			AutoInject: true,
		},
	}
}

// Load reads the configuration at path. A missing file yields Default() with
// no error; a present but unparsable file is an error so that a corrupt
// config is never silently replaced.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		applyEnv(&cfg)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed. The write goes through a temporary file and an atomic rename so a
// crash mid-write never leaves a truncated config behind.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("config: serialize: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("config: atomic rename %s: %w", path, err)
	}
	return nil
}

// applyEnv layers OFF_CONTEXT_* environment overrides on top of a loaded
// configuration. The variables are typically sourced from a .env file loaded
// at CLI startup.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OFF_CONTEXT_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("OFF_CONTEXT_COLLECTION"); v != "" {
		cfg.Database.Collection = v
	}
	if v := os.Getenv("OFF_CONTEXT_AUTO_INJECT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Hooks.AutoInject = b
		}
	}
	if v := os.Getenv("OFF_CONTEXT_HOOKS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Hooks.Enabled = b
		}
	}
}

// GlobalDir returns the global ~/.off-context directory.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// GlobalConfig loads the global configuration, anchoring the database path
// under the global directory when the file does not set one.
func GlobalConfig() (Config, error) {
	dir, err := GlobalDir()
	if err != nil {
		return Config{}, err
	}
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return Config{}, err
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(dir, StoreDirName)
	}
	return cfg, nil
}
