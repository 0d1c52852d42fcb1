package search

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offcontext/offcontext/pkg/types"
)

func conv(user, assistant string, ts time.Time) types.Conversation {
	return types.Conversation{
		ID:                uuid.New(),
		Timestamp:         ts,
		UserMessage:       user,
		AssistantResponse: assistant,
	}
}

func TestRankScoring(t *testing.T) {
	ts := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	convs := []types.Conversation{
		conv("how do goroutines work", "they are lightweight threads", ts),
		conv("explain channels", "channels pass values between goroutines", ts),
		conv("what is a slice", "a view over an array", ts),
	}

	results := New().Rank(convs, "goroutines", 10)
	require.Len(t, results, 2)

	// User-side match outweighs assistant-side match.
	assert.InDelta(t, 0.5, results[0].Score, 1e-9)
	assert.Equal(t, "how do goroutines work", results[0].Conversation.UserMessage)
	assert.InDelta(t, 0.3, results[1].Score, 1e-9)
}

func TestRankBothSidesMatch(t *testing.T) {
	ts := time.Now().UTC()
	convs := []types.Conversation{
		conv("profile rust code", "rust profiling uses perf", ts),
	}

	results := New().Rank(convs, "rust", 10)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.8, results[0].Score, 1e-9)
}

func TestRankMultiWordQuery(t *testing.T) {
	ts := time.Now().UTC()
	convs := []types.Conversation{
		conv("database migration error", "run the migration again", ts),
	}

	// "database" matches user only (0.5); "migration" matches both (0.8).
	results := New().Rank(convs, "database migration", 10)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.3, results[0].Score, 1e-9)
}

func TestRankCaseInsensitive(t *testing.T) {
	convs := []types.Conversation{
		conv("Fix the DOCKER build", "check the Dockerfile", time.Now().UTC()),
	}
	results := New().Rank(convs, "Docker", 10)
	require.Len(t, results, 1)
}

func TestRankEmptyQuery(t *testing.T) {
	convs := []types.Conversation{
		conv("anything", "at all", time.Now().UTC()),
	}
	assert.Empty(t, New().Rank(convs, "", 10))
	assert.Empty(t, New().Rank(convs, "   ", 10))
}

func TestRankNoMatches(t *testing.T) {
	convs := []types.Conversation{
		conv("question", "answer", time.Now().UTC()),
	}
	assert.Empty(t, New().Rank(convs, "unrelated", 10))
}

func TestRankLimit(t *testing.T) {
	ts := time.Now().UTC()
	convs := []types.Conversation{
		conv("go question one", "a", ts),
		conv("go question two", "b", ts.Add(time.Minute)),
		conv("go question three", "c", ts.Add(2*time.Minute)),
	}

	results := New().Rank(convs, "go", 1)
	require.Len(t, results, 1)

	assert.Empty(t, New().Rank(convs, "go", 0))
	assert.Empty(t, New().Rank(convs, "go", -1))
}

func TestRankTieBreaksNewestFirst(t *testing.T) {
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	older := conv("go question", "a", base)
	newer := conv("go question", "b", base.Add(time.Hour))

	results := New().Rank([]types.Conversation{older, newer}, "go", 10)
	require.Len(t, results, 2)
	assert.Equal(t, newer.ID, results[0].Conversation.ID)
	assert.Equal(t, older.ID, results[1].Conversation.ID)
}

func TestRankEqualTimestampTieBreaksOnID(t *testing.T) {
	ts := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	a := conv("go question", "x", ts)
	b := conv("go question", "y", ts)

	first := New().Rank([]types.Conversation{a, b}, "go", 10)
	second := New().Rank([]types.Conversation{b, a}, "go", 10)
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].Conversation.ID, second[0].Conversation.ID, "order must not depend on input order")
	assert.True(t, first[0].Conversation.ID.String() < first[1].Conversation.ID.String())
}

func TestRankAboveThreshold(t *testing.T) {
	ts := time.Now().UTC()
	convs := []types.Conversation{
		conv("api design", "rest versus rpc", ts),
		conv("unrelated", "api mention here", ts),
	}

	results := New().RankAbove(convs, "api", 10, 0.4)
	require.Len(t, results, 1, "assistant-only match at 0.3 falls below threshold")
	assert.Equal(t, "api design", results[0].Conversation.UserMessage)
}

func TestSnippetFormat(t *testing.T) {
	c := conv("short question", "short answer", time.Now().UTC())
	assert.Equal(t, "User: short question\nAssistant: short answer", Snippet(c))
}

func TestSnippetTruncation(t *testing.T) {
	longUser := strings.Repeat("u", 150)
	longAssistant := strings.Repeat("a", 250)
	c := conv(longUser, longAssistant, time.Now().UTC())

	s := Snippet(c)
	assert.Contains(t, s, strings.Repeat("u", 100)+"...")
	assert.Contains(t, s, strings.Repeat("a", 200)+"...")
	assert.NotContains(t, s, strings.Repeat("u", 101))
	assert.NotContains(t, s, strings.Repeat("a", 201))
}

func TestTruncateRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 120)
	out := truncate(s, 100)
	assert.Equal(t, strings.Repeat("é", 100)+"...", out)
}
