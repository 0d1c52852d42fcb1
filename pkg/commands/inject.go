package commands

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory"
	"github.com/offcontext/offcontext/pkg/memory/inject"
	"github.com/offcontext/offcontext/pkg/types"
)

// promptEvent is the UserPromptSubmit hook payload delivered on stdin.
type promptEvent struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Prompt         string `json:"prompt"`
}

// Inject enhances a plain-text query from the interactive path. Queries
// below the length floor or matching a simple acknowledgement pass through
// untouched, as does everything when any internal step fails.
func Inject(project *config.Project, log *logging.Logger, query string) string {
	if inject.Bypass(query) {
		return query
	}
	return compactContext(project, log, query)
}

// InjectPrompt processes the official UserPromptSubmit JSON and returns the
// prompt text, with compact context prepended the first time a session is
// seen. It never fails; malformed input or internal errors yield the
// original prompt.
func InjectPrompt(project *config.Project, log *logging.Logger, raw string) string {
	var ev promptEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		log.Debugf("inject-prompt: not a hook payload: %v", err)
		return raw
	}
	if ev.Prompt == "" {
		return ev.Prompt
	}
	if !firstInjectionForSession(project, ev.SessionID) {
		return ev.Prompt
	}
	return compactContext(project, log, ev.Prompt)
}

// SmartInject rewrites the full hook JSON, prepending the structured
// instruction block of the most recent other session to its prompt field.
// All non-prompt fields are preserved. Any failure returns raw unchanged.
func SmartInject(project *config.Project, log *logging.Logger, raw string) string {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		log.Debugf("smart-inject: not a hook payload: %v", err)
		return raw
	}
	prompt, _ := payload["prompt"].(string)
	if prompt == "" {
		return raw
	}
	sessionID, _ := payload["session_id"].(string)
	if !firstInjectionForSession(project, sessionID) {
		return raw
	}

	block, ok := structuredContext(project, log, sessionID)
	if !ok {
		return raw
	}
	payload["prompt"] = block + prompt

	out, err := json.Marshal(payload)
	if err != nil {
		log.Warnf("smart-inject: serialize payload: %v", err)
		return raw
	}
	return string(out)
}

// firstInjectionForSession reports whether this session has not received
// context yet, recording a marker file as a side effect. Sessions without an
// ID, and callers outside a project, are always treated as first-time.
func firstInjectionForSession(project *config.Project, sessionID string) bool {
	if project == nil || sessionID == "" {
		return true
	}
	marker := project.SessionMarkerPath(sessionID)
	if _, err := os.Stat(marker); err == nil {
		return false
	}
	if err := os.MkdirAll(project.ConfigDir(), 0o750); err != nil {
		return true
	}
	_ = os.WriteFile(marker, nil, 0o600)
	return true
}

// compactContext runs the guard chain and applies the compact policy.
func compactContext(project *config.Project, log *logging.Logger, prompt string) string {
	convs, ok := selectableConversations(project, log)
	if !ok {
		return prompt
	}
	return inject.SelectCompact(convs, prompt)
}

// structuredContext runs the guard chain and applies the structured policy.
func structuredContext(project *config.Project, log *logging.Logger, currentSessionID string) (string, bool) {
	convs, ok := selectableConversations(project, log)
	if !ok {
		return "", false
	}
	return inject.SelectSession(convs, currentSessionID), true
}

// selectableConversations loads the full record set when injection is
// permitted: inside a project, auto-inject enabled, store readable.
func selectableConversations(project *config.Project, log *logging.Logger) ([]types.Conversation, bool) {
	if project == nil {
		return nil, false
	}
	cfg, err := project.LoadConfig()
	if err != nil {
		log.Warnf("inject: load configuration: %v", err)
		return nil, false
	}
	if !cfg.Hooks.AutoInject {
		return nil, false
	}
	store, err := memory.NewFileStore(cfg.Database.Path, cfg.Database.Collection)
	if err != nil {
		if errors.Is(err, memory.ErrCorruptSnapshot) {
			log.Warnf("inject: %v", err)
		}
		return nil, false
	}
	convs, err := store.All(background())
	if err != nil || len(convs) == 0 {
		return nil, false
	}
	return convs, true
}
