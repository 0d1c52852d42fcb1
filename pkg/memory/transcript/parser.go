// Package transcript converts raw assistant transcript files into
// conversation records. Three physical shapes are supported, modeled as a
// closed set tried in a fixed order; a shape that parses but yields zero
// conversations falls through to the next one.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/offcontext/offcontext/pkg/types"
)

// shape identifies one of the accepted transcript encodings.
type shape int

const (
	// shapeDocument is a single JSON document with a top-level messages list.
	shapeDocument shape = iota
	// shapeDocumentLines is the same document shape, one JSON document per line.
	shapeDocumentLines
	// shapeEventLines is line-delimited events with a type discriminator and
	// a nested message.content field.
	shapeEventLines
)

// parseOrder is the fallback policy: shapes are attempted in this order and
// the first one producing at least one conversation wins.
var parseOrder = []shape{shapeDocument, shapeDocumentLines, shapeEventLines}

// document is the single-document transcript wire shape.
type document struct {
	Messages  []documentMessage `json:"messages"`
	SessionID string            `json:"session_id"`
	CreatedAt string            `json:"created_at"`
}

type documentMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// event is the line-delimited event wire shape.
type event struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Message   eventMessage `json:"message"`
}

type eventMessage struct {
	Content json.RawMessage `json:"content"`
}

// Parse reads the transcript at path and extracts conversations. A file that
// cannot be read is a hard error; anything below file level (a malformed
// line or object) is recovered by omission and never aborts the batch.
func Parse(path string) ([]types.Conversation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcript: read %s: %w", path, err)
	}

	for _, sh := range parseOrder {
		var convs []types.Conversation
		switch sh {
		case shapeDocument:
			convs = parseDocument(raw, path)
		case shapeDocumentLines:
			convs = parseDocumentLines(raw, path)
		case shapeEventLines:
			convs = parseEventLines(raw, path)
		}
		if len(convs) > 0 {
			return convs, nil
		}
	}
	return nil, nil
}

// pairing holds the one-slot user buffer used by every shape. Only the most
// recent unpaired user message is retained, so a second consecutive user
// message replaces the first.
type pairing struct {
	sourcePath  string
	sessionID   string
	userMessage string
	hasUser     bool
	out         []types.Conversation
}

func (p *pairing) user(content string) {
	p.userMessage = content
	p.hasUser = true
}

// assistant pairs the buffered user message with an assistant response and
// emits one conversation. An assistant message with no buffered user message
// is dropped.
func (p *pairing) assistant(content, timestamp string) {
	if !p.hasUser {
		return
	}
	user := p.userMessage
	p.hasUser = false

	p.out = append(p.out, types.Conversation{
		ID:                uuid.New(),
		Timestamp:         resolveTimestamp(timestamp),
		UserMessage:       user,
		AssistantResponse: content,
		Metadata: types.ConversationMetadata{
			SessionID:   p.sessionID,
			ProjectPath: detectProjectPath(p.sourcePath),
			Tags:        extractTags(user),
			TokenCount:  estimateTokens(user, content),
		},
	})
}

func parseDocument(raw []byte, path string) []types.Conversation {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil || len(doc.Messages) == 0 {
		return nil
	}
	return extractFromDocument(doc, path)
}

func parseDocumentLines(raw []byte, path string) []types.Conversation {
	var out []types.Conversation
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var doc document
		if err := json.Unmarshal([]byte(line), &doc); err != nil || len(doc.Messages) == 0 {
			// One bad line never aborts the file.
			continue
		}
		out = append(out, extractFromDocument(doc, path)...)
	}
	return out
}

func extractFromDocument(doc document, path string) []types.Conversation {
	p := pairing{sourcePath: path, sessionID: doc.SessionID}
	for _, msg := range doc.Messages {
		switch msg.Role {
		case "user":
			p.user(msg.Content)
		case "assistant":
			p.assistant(msg.Content, msg.Timestamp)
		default:
			// System and tool messages carry no exchange content.
		}
	}
	return p.out
}

func parseEventLines(raw []byte, path string) []types.Conversation {
	p := pairing{sourcePath: path}
	for _, line := range strings.Split(string(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var ev event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		switch ev.Type {
		case "user":
			content, ok := decodeEventContent(ev.Message.Content)
			if !ok {
				continue
			}
			p.user(content)
			p.sessionID = ev.SessionID
		case "assistant":
			content, ok := decodeEventContent(ev.Message.Content)
			if !ok {
				continue
			}
			p.assistant(content, "")
		}
	}
	return p.out
}

// decodeEventContent accepts either a bare string or a list whose first
// element carries a text field.
func decodeEventContent(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var blocks []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil && len(blocks) > 0 && blocks[0].Text != "" {
		return blocks[0].Text, true
	}
	return "", false
}

// resolveTimestamp parses an RFC 3339 timestamp, substituting the current
// time when it is absent or malformed. Two identical inputs parsed at
// different times may therefore disagree; callers accept that.
func resolveTimestamp(ts string) time.Time {
	if ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// estimateTokens approximates the exchange's token footprint at four bytes
// per token. It is a display heuristic, not a tokenizer.
func estimateTokens(user, assistant string) int {
	return (len(user) + len(assistant)) / 4
}
