package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoProject is returned by Find when no initialized project contains the
// starting directory.
var ErrNoProject = errors.New("config: no initialized project found")

// Project is a resolved handle to an initialized project: a directory tree
// whose root contains a .off-context directory. Entry points resolve it once
// and pass it down; a nil *Project means "not inside a project" and the
// implicit hook paths treat that as a silent no-op.
type Project struct {
	// Root is the project root directory.
	Root string
}

// Find walks upward from startDir looking for a .off-context directory.
func Find(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", startDir, err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, DirName))
		if err == nil && info.IsDir() {
			return &Project{Root: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoProject
		}
		dir = parent
	}
}

// FindFromWorkingDir is Find anchored at the current working directory.
func FindFromWorkingDir() (*Project, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: working directory: %w", err)
	}
	return Find(wd)
}

// ConfigDir returns the project's .off-context directory.
func (p *Project) ConfigDir() string {
	return filepath.Join(p.Root, DirName)
}

// ConfigPath returns the project's configuration file path.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.ConfigDir(), FileName)
}

// StoreDir returns the directory holding the project's conversation snapshot.
func (p *Project) StoreDir() string {
	return filepath.Join(p.ConfigDir(), StoreDirName)
}

// SessionMarkerPath returns the path of the marker file recording that
// context was already injected for the given session.
func (p *Project) SessionMarkerPath(sessionID string) string {
	return filepath.Join(p.ConfigDir(), "session_injected_"+sessionID)
}

// LoadConfig loads the project-local configuration, creating a default one
// on first use. The database path is always forced project-relative so a
// project config copied from elsewhere cannot point the store outside the
// project.
func (p *Project) LoadConfig() (Config, error) {
	path := p.ConfigPath()
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	cfg.Database.Path = p.StoreDir()

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		saved := cfg
		// Persist without the absolute path so the project stays relocatable.
		saved.Database.Path = ""
		if err := Save(saved, path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// Init creates the project's .off-context directory and default config under
// root, returning the resolved handle.
func Init(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", root, err)
	}
	p := &Project{Root: abs}
	if err := os.MkdirAll(p.ConfigDir(), 0o750); err != nil {
		return nil, fmt.Errorf("config: create %s: %w", p.ConfigDir(), err)
	}
	if _, err := p.LoadConfig(); err != nil {
		return nil, err
	}
	return p, nil
}
