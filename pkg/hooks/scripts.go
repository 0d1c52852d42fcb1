// Package hooks installs and inspects the assistant-runtime integration:
// the shell hook scripts living in the runtime's global hooks directory and
// the per-project settings block that points at them.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserPromptSubmitScript rewrites outgoing prompts through the injector.
// Falls back to cat so a missing binary never blocks the interaction.
const UserPromptSubmitScript = `#!/bin/bash
# offcontext UserPromptSubmit hook
# Receives JSON via stdin with session_id, transcript_path, prompt
if command -v offcontext >/dev/null 2>&1; then
    offcontext inject-prompt
else
    cat
fi
`

// StopScript captures the finished turn's transcript in the background.
const StopScript = `#!/bin/bash
# offcontext Stop hook
# Receives JSON via stdin with session_id, transcript_path

LOG_FILE="$HOME/.off-context/hooks.log"

log() {
    echo "[$(date '+%Y-%m-%d %H:%M:%S')] [Stop] $1" >> "$LOG_FILE"
}

INPUT_JSON=$(cat)

if command -v jq >/dev/null 2>&1; then
    TRANSCRIPT_FILE=$(echo "$INPUT_JSON" | jq -r '.transcript_path // empty')
else
    log "jq not found, cannot parse JSON input"
    exit 1
fi

if [ -n "$TRANSCRIPT_FILE" ] && [ -f "$TRANSCRIPT_FILE" ]; then
    if command -v offcontext >/dev/null 2>&1; then
        offcontext hook "$TRANSCRIPT_FILE" >>"$LOG_FILE" 2>&1 &
    else
        log "offcontext not found, skipping hook call"
    fi
else
    log "no transcript file to process: $TRANSCRIPT_FILE"
fi
`

const (
	userPromptHookName = "UserPromptSubmit.sh"
	stopHookName       = "Stop.sh"
)

// RuntimeConfigDir locates the assistant runtime's configuration directory,
// trying the common per-platform locations and defaulting to the first
// candidate when none exists yet.
func RuntimeConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("hooks: resolve home directory: %w", err)
	}
	candidates := []string{
		filepath.Join(home, ".config", "claude"),
		filepath.Join(home, "Library", "Application Support", "claude"),
		filepath.Join(home, "AppData", "Roaming", "claude"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return candidates[0], nil
}

// RuntimeHooksDir returns the global hooks directory inside the runtime
// configuration directory.
func RuntimeHooksDir() (string, error) {
	dir, err := RuntimeConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hooks"), nil
}

// InstallScripts writes both hook scripts into dir and marks them
// executable.
func InstallScripts(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("hooks: create hooks directory: %w", err)
	}
	scripts := map[string]string{
		userPromptHookName: UserPromptSubmitScript,
		stopHookName:       StopScript,
	}
	for name, body := range scripts {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			return fmt.Errorf("hooks: write %s: %w", name, err)
		}
	}
	return nil
}

// ScriptsInstalled reports whether both hook scripts are present in dir.
func ScriptsInstalled(dir string) bool {
	for _, name := range []string{userPromptHookName, stopHookName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// ScriptPaths returns the on-disk locations of the two hook scripts.
func ScriptPaths(dir string) (userPrompt, stop string) {
	return filepath.Join(dir, userPromptHookName), filepath.Join(dir, stopHookName)
}
