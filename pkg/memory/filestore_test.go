package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/offcontext/offcontext/pkg/types"
)

func testConversation(t *testing.T, user, assistant string, ts time.Time) types.Conversation {
	t.Helper()
	return types.Conversation{
		ID:                uuid.New(),
		Timestamp:         ts,
		UserMessage:       user,
		AssistantResponse: assistant,
		Metadata: types.ConversationMetadata{
			SessionID:  "session_abc",
			Tags:       []string{"testing"},
			TokenCount: (len(user) + len(assistant)) / 4,
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c1 := testConversation(t, "how do I write a goroutine", "use the go keyword", now)
	c2 := testConversation(t, "what is a channel", "a typed conduit", now.Add(time.Minute))

	if err := store.Insert(ctx, c1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, c2); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Reopen from disk and verify everything survived.
	reopened, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore reopen failed: %v", err)
	}
	count, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 conversations after reload, got %d", count)
	}

	got, err := reopened.Get(ctx, c1.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserMessage != c1.UserMessage {
		t.Errorf("Expected user message %q, got %q", c1.UserMessage, got.UserMessage)
	}
	if got.Metadata.SessionID != c1.Metadata.SessionID {
		t.Errorf("Expected session %q, got %q", c1.Metadata.SessionID, got.Metadata.SessionID)
	}
	if !got.Timestamp.Equal(c1.Timestamp) {
		t.Errorf("Expected timestamp %v, got %v", c1.Timestamp, got.Timestamp)
	}
}

func TestFileStoreGetNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	_, err = store.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreInsertReplacesByID(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	c := testConversation(t, "original", "answer", time.Now().UTC())
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	c.UserMessage = "updated"
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Fatalf("Expected replace by ID to keep count at 1, got %d", count)
	}
	got, err := store.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserMessage != "updated" {
		t.Errorf("Expected replaced message, got %q", got.UserMessage)
	}
}

func TestFileStoreAllOrdering(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	newest := testConversation(t, "third", "c", base.Add(2*time.Hour))
	oldest := testConversation(t, "first", "a", base)
	middle := testConversation(t, "second", "b", base.Add(time.Hour))

	for _, c := range []types.Conversation{newest, oldest, middle} {
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 conversations, got %d", len(all))
	}
	for i, want := range []string{"first", "second", "third"} {
		if all[i].UserMessage != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, all[i].UserMessage)
		}
	}
}

func TestFileStoreAllTimestampTieBreaksOnID(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	a := testConversation(t, "a", "x", ts)
	b := testConversation(t, "b", "y", ts)
	for _, c := range []types.Conversation{a, b} {
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	first, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	// Same input must enumerate identically every time.
	for i := 0; i < 5; i++ {
		again, err := store.All(ctx)
		if err != nil {
			t.Fatalf("All failed: %v", err)
		}
		for j := range first {
			if again[j].ID != first[j].ID {
				t.Fatalf("Enumeration order changed between calls")
			}
		}
	}
	if first[0].ID.String() > first[1].ID.String() {
		t.Errorf("Expected ID ascending tie-break, got %s before %s", first[0].ID, first[1].ID)
	}
}

func TestFileStoreClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Insert(ctx, testConversation(t, "q", "a", time.Now().UTC())); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, _ := store.Count(ctx)
	if count != 0 {
		t.Fatalf("Expected empty store after clear, got %d", count)
	}

	// Clearing again is a no-op, not an error.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Second Clear failed: %v", err)
	}

	// The cleared state must persist.
	reopened, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore reopen failed: %v", err)
	}
	count, _ = reopened.Count(ctx)
	if count != 0 {
		t.Fatalf("Expected cleared store to reload empty, got %d", count)
	}
}

func TestFileStoreMissingAndEmptySnapshot(t *testing.T) {
	dir := t.TempDir()

	// Missing file is an empty store.
	store, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	count, _ := store.Count(context.Background())
	if count != 0 {
		t.Fatalf("Expected empty store for missing snapshot, got %d", count)
	}

	// So is a whitespace-only file.
	if err := os.WriteFile(filepath.Join(dir, "conversations.json"), []byte("  \n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	store, err = NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed on empty file: %v", err)
	}
	count, _ = store.Count(context.Background())
	if count != 0 {
		t.Fatalf("Expected empty store for blank snapshot, got %d", count)
	}
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conversations.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := NewFileStore(dir, "conversations")
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("Expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestFileStoreConcurrentInserts(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Insert(ctx, testConversation(t, "concurrent", "write", time.Now().UTC()))
		}()
	}
	wg.Wait()

	count, _ := store.Count(ctx)
	if count != n {
		t.Fatalf("Expected %d conversations, got %d", n, count)
	}

	// The last snapshot written must be a complete consistent copy.
	reopened, err := NewFileStore(dir, "conversations")
	if err != nil {
		t.Fatalf("NewFileStore reopen failed: %v", err)
	}
	reCount, _ := reopened.Count(ctx)
	if reCount == 0 {
		t.Fatalf("Expected a persisted snapshot after concurrent inserts")
	}
}
