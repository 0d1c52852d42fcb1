package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// settingsRelPath is the runtime's per-project settings file, relative to
// the project root.
const settingsRelPath = ".claude/settings.local.json"

// SettingsPath returns the per-project settings file for projectRoot.
func SettingsPath(projectRoot string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(settingsRelPath))
}

// hooksBlock builds the settings "hooks" value wiring both events to the
// installed scripts.
func hooksBlock(userPromptHook, stopHook string) map[string]interface{} {
	command := func(path string) []interface{} {
		return []interface{}{
			map[string]interface{}{
				"hooks": []interface{}{
					map[string]interface{}{"type": "command", "command": path},
				},
			},
		}
	}
	return map[string]interface{}{
		"UserPromptSubmit": command(userPromptHook),
		"Stop":             command(stopHook),
	}
}

// EnableProject writes (or rewrites) the hooks block of the project's
// settings file, preserving every other key already present.
func EnableProject(projectRoot, hooksDir string) error {
	settings, err := readSettings(projectRoot)
	if err != nil {
		return err
	}

	userPrompt, stop := ScriptPaths(hooksDir)
	settings["hooks"] = hooksBlock(userPrompt, stop)
	return writeSettings(projectRoot, settings)
}

// DisableProject removes the hooks block from the project's settings file.
// It reports whether anything was removed; a missing file is not an error.
func DisableProject(projectRoot string) (bool, error) {
	path := SettingsPath(projectRoot)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	settings, err := readSettings(projectRoot)
	if err != nil {
		return false, err
	}
	if _, ok := settings["hooks"]; !ok {
		return false, nil
	}
	delete(settings, "hooks")
	return true, writeSettings(projectRoot, settings)
}

// ProjectEnabled reports whether the project's settings file carries a hooks
// block.
func ProjectEnabled(projectRoot string) bool {
	settings, err := readSettings(projectRoot)
	if err != nil {
		return false
	}
	_, ok := settings["hooks"]
	return ok
}

func readSettings(projectRoot string) (map[string]interface{}, error) {
	b, err := os.ReadFile(SettingsPath(projectRoot))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hooks: read settings: %w", err)
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(b, &settings); err != nil {
		// A hand-edited, unparsable settings file is replaced rather than
		// propagated; the hooks block is the only part this tool owns.
		return map[string]interface{}{}, nil
	}
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return settings, nil
}

func writeSettings(projectRoot string, settings map[string]interface{}) error {
	path := SettingsPath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("hooks: create settings directory: %w", err)
	}
	b, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("hooks: serialize settings: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("hooks: write settings: %w", err)
	}
	return nil
}
