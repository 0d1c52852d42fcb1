// Package memory owns the durable collection of captured conversations. The
// store keeps the full collection in memory behind a single lock and mirrors
// every mutation to one JSON snapshot file on disk.
package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/offcontext/offcontext/pkg/types"
)

// ErrNotFound is returned by Get when no conversation has the given ID.
var ErrNotFound = errors.New("memory: conversation not found")

// ErrCorruptSnapshot is returned when the snapshot file exists, is non-empty,
// and cannot be decoded. Callers must surface this rather than resetting the
// store, since silently discarding the snapshot would lose data.
var ErrCorruptSnapshot = errors.New("memory: corrupt snapshot")

// Store is the read/write interface for the conversation collection.
type Store interface {
	// Insert adds or replaces a conversation by ID and persists the
	// resulting collection.
	Insert(ctx context.Context, conv types.Conversation) error

	// Get retrieves a conversation by ID, returning ErrNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (types.Conversation, error)

	// All returns every stored conversation ordered by timestamp, then ID.
	All(ctx context.Context) ([]types.Conversation, error)

	// Count returns the number of stored conversations.
	Count(ctx context.Context) (int, error)

	// Clear empties the collection and persists the empty state.
	Clear(ctx context.Context) error
}
