package commands

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/hooks"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory"
)

// Setup performs the one-time global configuration: install the hook
// scripts, create the global config, and check that the store can be opened.
func Setup(log *logging.Logger, w io.Writer, force bool) error {
	hooksDir, err := hooks.RuntimeHooksDir()
	if err != nil {
		return err
	}

	if !force && setupComplete(hooksDir) {
		fmt.Fprintln(w, okStyle.Render("offcontext is already configured"))
		fmt.Fprintln(w, labelStyle.Render("Use -force to reconfigure"))
		return nil
	}

	globalDir, err := config.GlobalDir()
	if err != nil {
		return err
	}
	cfgPath := filepath.Join(globalDir, config.FileName)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.Save(config.Default(), cfgPath); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, okStyle.Render("Configuration initialized"))

	if path, err := exec.LookPath("claude"); err == nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("runtime binary:"), valueStyle.Render(path))
	} else {
		fmt.Fprintln(w, warnStyle.Render("Assistant runtime binary not found in PATH; hooks will activate once it is installed"))
	}

	if err := hooks.InstallScripts(hooksDir); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("Hook scripts installed:"), valueStyle.Render(hooksDir))

	// Open the global store once so a broken path surfaces here rather than
	// silently inside the first hook invocation.
	cfg, err := config.GlobalConfig()
	if err != nil {
		return err
	}
	if _, err := memory.NewFileStore(cfg.Database.Path, cfg.Database.Collection); err != nil {
		log.Warnf("setup: open global store: %v", err)
		fmt.Fprintln(w, warnStyle.Render("Store initialization failed; it will be retried on first use"))
	} else {
		fmt.Fprintln(w, okStyle.Render("Store ready"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Setup complete"))
	fmt.Fprintln(w, labelStyle.Render("Next: 'offcontext init' inside a project, then 'offcontext import' for history"))
	return nil
}

func setupComplete(hooksDir string) bool {
	globalDir, err := config.GlobalDir()
	if err != nil {
		return false
	}
	if _, err := os.Stat(globalDir); err != nil {
		return false
	}
	return hooks.ScriptsInstalled(hooksDir)
}
