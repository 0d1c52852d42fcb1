package logging

import (
	"os"
	"strings"
	"testing"
)

func TestLoggerWritesLeveledEntries(t *testing.T) {
	log, err := NewLogger("testcomp")
	if err != nil {
		t.Skipf("file logging unavailable in this environment: %v", err)
	}
	defer log.Close()

	log.Debugf("debug %d", 1)
	log.Infof("info %s", "message")
	log.Warnf("warn")
	log.Errorf("error")

	b, err := os.ReadFile(log.LogPath())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(b)

	for _, want := range []string{
		"[testcomp] [DEBUG] debug 1",
		"[testcomp] [INFO] info message",
		"[testcomp] [WARN] warn",
		"[testcomp] [ERROR] error",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, content)
		}
	}
}

func TestLoggersShareRunID(t *testing.T) {
	a, errA := NewLogger("first")
	b, errB := NewLogger("second")
	defer a.Close()
	defer b.Close()

	if a.RunID() != b.RunID() {
		t.Errorf("Expected shared run ID, got %s and %s", a.RunID(), b.RunID())
	}
	if errA == nil && errB == nil && a.LogPath() != b.LogPath() {
		t.Errorf("Expected shared log file, got %s and %s", a.LogPath(), b.LogPath())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	log, _ := NewLogger("closer")
	if err := log.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
}
