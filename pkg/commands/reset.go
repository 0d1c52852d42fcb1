package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
)

// Reset clears the project's conversation store and removes session
// injection markers. Unless yes is set, the user is asked to confirm on in.
func Reset(project *config.Project, log *logging.Logger, w io.Writer, in io.Reader, yes bool) error {
	if err := requireProject(project); err != nil {
		return err
	}

	store, cfg, err := openProjectStore(project)
	if err != nil {
		return err
	}
	ctx := background()
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("offcontext reset (project-local)"))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("conversations to delete:"), count)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("store path:"), valueStyle.Render(cfg.Database.Path))

	if !yes {
		fmt.Fprint(w, warnStyle.Render("This will delete ALL stored conversations. Continue? (y/N): "))
		line, _ := bufio.NewReader(in).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Fprintln(w, "Reset cancelled")
			return nil
		}
	}

	if err := store.Clear(ctx); err != nil {
		return err
	}
	log.Infof("reset: cleared %d conversations", count)
	fmt.Fprintln(w, okStyle.Render("Store cleared"))

	removeSessionMarkers(project, log)
	fmt.Fprintln(w, okStyle.Render("Reset complete"))
	return nil
}

// removeSessionMarkers deletes the per-session injection markers so the next
// prompt of every session gets fresh context again.
func removeSessionMarkers(project *config.Project, log *logging.Logger) {
	entries, err := os.ReadDir(project.ConfigDir())
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "session_injected_") {
			if err := os.Remove(filepath.Join(project.ConfigDir(), e.Name())); err != nil {
				log.Debugf("reset: remove marker %s: %v", e.Name(), err)
			}
		}
	}
}
