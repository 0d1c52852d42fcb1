package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Collection != "conversations" {
		t.Errorf("Expected collection 'conversations', got %q", cfg.Database.Collection)
	}
	if cfg.Context.MaxResults != 5 {
		t.Errorf("Expected max_results 5, got %d", cfg.Context.MaxResults)
	}
	if cfg.Context.MaxTokens != 2000 {
		t.Errorf("Expected max_tokens 2000, got %d", cfg.Context.MaxTokens)
	}
	if cfg.Context.RelevanceThreshold != 0 {
		t.Errorf("Expected relevance_threshold 0, got %f", cfg.Context.RelevanceThreshold)
	}
	if !cfg.Hooks.Enabled || !cfg.Hooks.AutoInject {
		t.Errorf("Expected hooks enabled and auto-inject on by default")
	}
	if cfg.Embeddings.Provider != "simple" {
		t.Errorf("Expected embeddings provider 'simple', got %q", cfg.Embeddings.Provider)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults for missing file, got %+v", cfg)
	}
}

func TestLoadUnparsableFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for unparsable config, got none")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Database.Collection = "custom"
	cfg.Context.MaxResults = 9
	cfg.Context.RelevanceThreshold = 0.25
	cfg.Hooks.AutoInject = false

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != cfg {
		t.Errorf("Round trip mismatch:\nsaved:  %+v\nloaded: %+v", cfg, loaded)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("context:\n  max_results: 12\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Context.MaxResults != 12 {
		t.Errorf("Expected overridden max_results 12, got %d", cfg.Context.MaxResults)
	}
	if cfg.Context.MaxTokens != 2000 {
		t.Errorf("Expected default max_tokens to survive partial file, got %d", cfg.Context.MaxTokens)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OFF_CONTEXT_COLLECTION", "env-collection")
	t.Setenv("OFF_CONTEXT_AUTO_INJECT", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Collection != "env-collection" {
		t.Errorf("Expected env collection override, got %q", cfg.Database.Collection)
	}
	if cfg.Hooks.AutoInject {
		t.Error("Expected env to disable auto-inject")
	}
}

func TestEnvOverrideInvalidBoolIgnored(t *testing.T) {
	t.Setenv("OFF_CONTEXT_HOOKS_ENABLED", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Hooks.Enabled {
		t.Error("Expected invalid bool to leave hooks enabled")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DirName), 0o750); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	project, err := Find(nested)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if project.Root != root {
		t.Errorf("Expected root %q, got %q", root, project.Root)
	}
}

func TestFindNoProject(t *testing.T) {
	_, err := Find(t.TempDir())
	if !errors.Is(err, ErrNoProject) {
		t.Fatalf("Expected ErrNoProject, got %v", err)
	}
}

func TestFindIgnoresMarkerFile(t *testing.T) {
	// A plain file named .off-context is not an initialized project.
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DirName), []byte(""), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Find(root); !errors.Is(err, ErrNoProject) {
		t.Fatalf("Expected ErrNoProject for marker file, got %v", err)
	}
}

func TestProjectInitAndLoadConfig(t *testing.T) {
	root := t.TempDir()
	project, err := Init(root)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if _, err := os.Stat(project.ConfigPath()); err != nil {
		t.Fatalf("Expected config file to be created: %v", err)
	}

	cfg, err := project.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.Path != project.StoreDir() {
		t.Errorf("Expected database path forced to %q, got %q", project.StoreDir(), cfg.Database.Path)
	}

	// The persisted file must not pin an absolute store path.
	b, err := os.ReadFile(project.ConfigPath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var persisted Config
	if err := yaml.Unmarshal(b, &persisted); err != nil {
		t.Fatalf("Unmarshal persisted config failed: %v", err)
	}
	if persisted.Database.Path != "" {
		t.Errorf("Persisted config should not pin a database path, got %q", persisted.Database.Path)
	}
}

func TestSessionMarkerPath(t *testing.T) {
	p := &Project{Root: "/tmp/proj"}
	want := filepath.Join("/tmp/proj", DirName, "session_injected_abc123")
	if got := p.SessionMarkerPath("abc123"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
