// Package types defines the shared data model for offcontext: captured
// conversations, their metadata, and search results. It is imported by the
// store, parser, search, and injection layers so that all of them operate on
// the exact shape that is persisted to disk.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is one resolved user/assistant exchange captured from an
// assistant transcript. Once stored, a Conversation is logically immutable:
// updates are full replacements keyed by ID, never partial field mutation.
type Conversation struct {
	ID                uuid.UUID            `json:"id"`
	Timestamp         time.Time            `json:"timestamp"`
	UserMessage       string               `json:"user_message"`
	AssistantResponse string               `json:"assistant_response"`
	Metadata          ConversationMetadata `json:"metadata"`
}

// ConversationMetadata carries the derived attributes attached to a
// conversation at parse time.
type ConversationMetadata struct {
	// SessionID groups conversations produced during one continuous
	// interactive run. Empty when the transcript did not carry one.
	SessionID string `json:"session_id,omitempty"`

	// ProjectPath is the project root inferred from the transcript's
	// location on disk. Empty when no project marker was found.
	ProjectPath string `json:"project_path,omitempty"`

	// Tags are detected from a fixed keyword table scanned over the user
	// message. Detection iterates the table once, so the list is
	// duplicate-free and ordered by detection order.
	Tags []string `json:"tags"`

	// TokenCount is a cheap length-based estimate, not a real tokenizer.
	TokenCount int `json:"token_count"`

	// EmbeddingModel is reserved for a future vector retrieval backend and
	// is always empty in the current design.
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

// SearchResult is one ranked hit from the relevance search engine.
type SearchResult struct {
	Conversation Conversation
	Score        float64
	Snippet      string
}
