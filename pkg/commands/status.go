package commands

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/hooks"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory/embeddings"
)

// Status reports hook wiring, store health, and configuration for the
// current project.
func Status(project *config.Project, log *logging.Logger, w io.Writer) error {
	if err := requireProject(project); err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render("offcontext status (project-local)"))

	hooksDir, err := hooks.RuntimeHooksDir()
	scriptsOK := err == nil && hooks.ScriptsInstalled(hooksDir)
	projectOK := hooks.ProjectEnabled(project.Root)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("hooks:"), activeMark(scriptsOK && projectOK))

	cfg, cfgErr := project.LoadConfig()
	if cfgErr != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("configuration:"), warnStyle.Render(cfgErr.Error()))
		return nil
	}

	store, _, storeErr := openProjectStore(project)
	if storeErr != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("memory store:"), warnStyle.Render(storeErr.Error()))
	} else {
		ctx := background()
		count, err := store.Count(ctx)
		if err != nil {
			log.Debugf("status: count conversations: %v", err)
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("memory store:"), okStyle.Render("ready"))
		fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("conversations:"), count)
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("size:"), valueStyle.Render(formatSize(dirSize(project.StoreDir()))))

		convs, err := store.All(ctx)
		if err == nil && len(convs) > 0 {
			last := convs[len(convs)-1].Timestamp
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("last activity:"), valueStyle.Render(relativeTime(last)))
		}
	}

	gen := embeddings.NewGenerator(cfg.Embeddings)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("embeddings:"), activeMark(gen.Available()))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("provider:"), valueStyle.Render(gen.Provider()))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("dimensions:"), gen.Dimension())

	fmt.Fprintf(w, "%s\n", labelStyle.Render("paths:"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("project root:"), valueStyle.Render(project.Root))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("config:"), valueStyle.Render(project.ConfigPath()))
	if err == nil {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("global hooks:"), valueStyle.Render(hooksDir))
	}

	if !scriptsOK {
		fmt.Fprintln(w)
		fmt.Fprintln(w, warnStyle.Render("Global hooks not installed; run 'offcontext setup'"))
	}
	return nil
}

func activeMark(ok bool) string {
	if ok {
		return okStyle.Render("active")
	}
	return warnStyle.Render("not configured")
}

func dirSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
