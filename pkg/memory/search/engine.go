// Package search ranks stored conversations against a keyword query. The
// scoring is purely lexical; the reserved embeddings backend never
// participates.
package search

import (
	"sort"
	"strings"

	"github.com/offcontext/offcontext/pkg/types"
)

const (
	userMatchWeight      = 0.5
	assistantMatchWeight = 0.3

	userSnippetLimit      = 100
	assistantSnippetLimit = 200
)

// Engine scores conversations by case-folded substring matches: each query
// word contributes 0.5 when found in the user message and 0.3 when found in
// the assistant response.
type Engine struct{}

// New returns a ready Engine.
func New() *Engine { return &Engine{} }

// Rank returns at most limit results in descending score order. Records with
// zero score are excluded, so an empty query yields an empty result set.
// Ties break deterministically by newest timestamp, then ID.
func (e *Engine) Rank(convs []types.Conversation, query string, limit int) []types.SearchResult {
	return e.RankAbove(convs, query, limit, 0)
}

// RankAbove is Rank with an additional inclusive minimum score used to apply
// the configured relevance threshold.
func (e *Engine) RankAbove(convs []types.Conversation, query string, limit int, minScore float64) []types.SearchResult {
	words := strings.Fields(strings.ToLower(query))

	var results []types.SearchResult
	for _, conv := range convs {
		score := scoreConversation(conv, words)
		if score <= 0 || score < minScore {
			continue
		}
		results = append(results, types.SearchResult{
			Conversation: conv,
			Score:        score,
			Snippet:      Snippet(conv),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		ti, tj := results[i].Conversation.Timestamp, results[j].Conversation.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return results[i].Conversation.ID.String() < results[j].Conversation.ID.String()
	})

	if limit < 0 {
		limit = 0
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func scoreConversation(conv types.Conversation, words []string) float64 {
	user := strings.ToLower(conv.UserMessage)
	assistant := strings.ToLower(conv.AssistantResponse)

	var score float64
	for _, w := range words {
		if strings.Contains(user, w) {
			score += userMatchWeight
		}
		if strings.Contains(assistant, w) {
			score += assistantMatchWeight
		}
	}
	return score
}

// Snippet renders a two-line labeled preview of a conversation, truncating
// the user side at 100 characters and the assistant side at 200.
func Snippet(conv types.Conversation) string {
	return "User: " + truncate(conv.UserMessage, userSnippetLimit) +
		"\nAssistant: " + truncate(conv.AssistantResponse, assistantSnippetLimit)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
