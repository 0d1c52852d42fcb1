package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/offcontext/offcontext/pkg/types"
)

// FileStore is the disk-backed Store implementation. The in-memory map is
// guarded by a single mutex; the snapshot write happens after the lock is
// released, from a copy taken while holding it, so writers never hold the
// lock across disk I/O. Two concurrent inserts may race on the disk write
// and the later write wins, which is acceptable because each snapshot is a
// complete, internally consistent copy of the collection.
//
// Concurrent invocations from separate processes are not coordinated at all;
// single-process concurrent use is safe.
type FileStore struct {
	path string

	mu            sync.Mutex
	conversations map[uuid.UUID]types.Conversation
}

// NewFileStore opens (or creates) the snapshot at dir/<collection>.json and
// loads it. A missing or empty file means an empty store; a non-empty file
// that fails to decode returns ErrCorruptSnapshot.
func NewFileStore(dir, collection string) (*FileStore, error) {
	if collection == "" {
		collection = "conversations"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("memory: init directory %s: %w", dir, err)
	}

	s := &FileStore{
		path:          filepath.Join(dir, collection+".json"),
		conversations: make(map[uuid.UUID]types.Conversation),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("memory: read snapshot %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil
	}

	var convs []types.Conversation
	if err := json.Unmarshal(b, &convs); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptSnapshot, s.path, err)
	}
	for _, c := range convs {
		s.conversations[c.ID] = c
	}
	return nil
}

// Insert adds or replaces a conversation by ID, then persists the whole
// collection. Persisting wholesale on every insert trades efficiency for
// simplicity; conversation counts stay in the thousands, not millions.
func (s *FileStore) Insert(_ context.Context, conv types.Conversation) error {
	s.mu.Lock()
	s.conversations[conv.ID] = conv
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.writeSnapshot(snapshot)
}

// Get retrieves a conversation by ID.
func (s *FileStore) Get(_ context.Context, id uuid.UUID) (types.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return types.Conversation{}, ErrNotFound
	}
	return conv, nil
}

// All returns every stored conversation ordered by timestamp, then ID. The
// secondary ID order makes enumeration deterministic even when timestamps
// collide.
func (s *FileStore) All(_ context.Context) ([]types.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Count returns the number of stored conversations.
func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations), nil
}

// Clear empties the collection and persists the empty state. Clearing an
// already empty store is a no-op that still rewrites the snapshot.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.conversations = make(map[uuid.UUID]types.Conversation)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	return s.writeSnapshot(snapshot)
}

// snapshotLocked copies the collection into a deterministically ordered
// slice. Callers must hold s.mu.
func (s *FileStore) snapshotLocked() []types.Conversation {
	out := make([]types.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *FileStore) writeSnapshot(convs []types.Conversation) error {
	b, err := json.MarshalIndent(convs, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: serialize snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("memory: write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("memory: atomic rename %s: %w", s.path, err)
	}
	return nil
}
