package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/hooks"
	"github.com/offcontext/offcontext/pkg/logging"
)

// InitProject initializes offcontext for the project rooted at dir: create
// the .off-context directory with a default config and wire the runtime's
// per-project settings at the installed hook scripts.
func InitProject(log *logging.Logger, w io.Writer, dir string) error {
	project, err := config.Init(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("Project directory created:"), valueStyle.Render(project.ConfigDir()))

	hooksDir, err := hooks.RuntimeHooksDir()
	if err != nil {
		return err
	}
	if err := hooks.EnableProject(project.Root, hooksDir); err != nil {
		return err
	}
	log.Infof("init: hooks enabled for %s", project.Root)
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("Hooks configured in:"), valueStyle.Render(hooks.SettingsPath(project.Root)))

	if !hooks.ScriptsInstalled(hooksDir) {
		fmt.Fprintln(w, warnStyle.Render("Global hook scripts missing; run 'offcontext setup'"))
	}
	return nil
}

// ClearHooks removes the hooks block from the project's runtime settings,
// leaving the stored conversations untouched.
func ClearHooks(project *config.Project, w io.Writer) error {
	if err := requireProject(project); err != nil {
		return err
	}
	removed, err := hooks.DisableProject(project.Root)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("Hooks removed from:"), valueStyle.Render(hooks.SettingsPath(project.Root)))
	} else {
		fmt.Fprintln(w, labelStyle.Render("No hooks block found in project settings"))
	}
	return nil
}

// Uninstall removes the global hook scripts and the global memory
// directory. Project-local stores are left in place.
func Uninstall(log *logging.Logger, w io.Writer) error {
	hooksDir, err := hooks.RuntimeHooksDir()
	if err != nil {
		return err
	}
	if err := removeDirReporting(w, hooksDir, "global hooks"); err != nil {
		return err
	}

	globalDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	if err := removeDirReporting(w, globalDir, "global memory"); err != nil {
		return err
	}

	log.Infof("uninstall: removed %s and %s", hooksDir, globalDir)
	return nil
}

func removeDirReporting(w io.Writer, dir, what string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Fprintf(w, "%s\n", labelStyle.Render(fmt.Sprintf("%s already absent (%s)", what, dir)))
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render(fmt.Sprintf("%s removed:", what)), valueStyle.Render(dir))
	return nil
}
