// Package commands implements the offcontext subcommands. The explicit
// commands (search, import, export, status, reset, init, setup, admin)
// report failures to the caller; the implicit hook paths (hook, inject)
// never do — they log and degrade, since their job is to stay invisible
// around every interaction.
package commands

import (
	"context"
	"fmt"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/memory"
)

// ErrNotInitialized is returned by explicit commands invoked outside an
// initialized project.
var ErrNotInitialized = fmt.Errorf("project not initialized, run 'offcontext init' first: %w", config.ErrNoProject)

// requireProject guards the explicit command paths.
func requireProject(project *config.Project) error {
	if project == nil {
		return ErrNotInitialized
	}
	return nil
}

// openProjectStore loads the project configuration and opens its
// conversation store.
func openProjectStore(project *config.Project) (*memory.FileStore, config.Config, error) {
	cfg, err := project.LoadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := memory.NewFileStore(cfg.Database.Path, cfg.Database.Collection)
	if err != nil {
		return nil, config.Config{}, err
	}
	return store, cfg, nil
}

func background() context.Context { return context.Background() }
