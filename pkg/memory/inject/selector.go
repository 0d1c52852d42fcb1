// Package inject decides what previously stored context, if any, should be
// prepended to a new prompt. Two policies exist: SelectSession builds a
// structured instruction block from the most recent other session, and
// SelectCompact builds a small bracketed digest of the last two exchanges.
// Both sit on the critical latency path of every user interaction, so any
// internal failure degrades to "no context added".
package inject

import (
	"fmt"
	"sort"
	"strings"

	"github.com/offcontext/offcontext/pkg/types"
)

const (
	instructionOpen  = "[INSTRUCTION]\n"
	instructionClose = "[/INSTRUCTION]\n\n"

	// sessionRecallDepth is how many trailing exchanges of the chosen prior
	// session are replayed.
	sessionRecallDepth = 3

	// compactRecallDepth is how many trailing exchanges the compact digest
	// includes.
	compactRecallDepth = 2

	compactUserLimit      = 80
	compactAssistantLimit = 200
)

// session is a transient grouping view built at selection time; nothing
// about it is persisted.
type session struct {
	id    string
	convs []types.Conversation
}

// SelectSession renders the structured instruction block for the current
// session. Conversations are grouped by session ID (records without one are
// excluded), each group is ordered by timestamp, and the chosen group is the
// most recent one whose ID differs from currentSessionID. When
// currentSessionID is empty the most recent group overall is chosen. The
// delimiter pair is emitted even when no eligible session exists.
func SelectSession(convs []types.Conversation, currentSessionID string) string {
	groups := groupBySession(convs)

	var chosen *session
	for i := len(groups) - 1; i >= 0; i-- {
		if currentSessionID == "" || groups[i].id != currentSessionID {
			chosen = &groups[i]
			break
		}
	}

	var b strings.Builder
	b.WriteString(instructionOpen)
	if chosen != nil {
		start := len(chosen.convs) - sessionRecallDepth
		if start < 0 {
			start = 0
		}
		for _, conv := range chosen.convs[start:] {
			fmt.Fprintf(&b, "Remember: in the last conversation, you answered %q to the question %q.\n",
				conv.AssistantResponse, conv.UserMessage)
		}
	}
	b.WriteString(instructionClose)
	return b.String()
}

// groupBySession builds session groups ordered oldest to newest by each
// group's latest conversation. Conversations inside a group are ordered by
// timestamp, then ID for determinism.
func groupBySession(convs []types.Conversation) []session {
	byID := make(map[string][]types.Conversation)
	for _, conv := range convs {
		sid := conv.Metadata.SessionID
		if sid == "" {
			continue
		}
		byID[sid] = append(byID[sid], conv)
	}

	groups := make([]session, 0, len(byID))
	for id, group := range byID {
		sortByTime(group)
		groups = append(groups, session{id: id, convs: group})
	}
	sort.Slice(groups, func(i, j int) bool {
		li := groups[i].convs[len(groups[i].convs)-1]
		lj := groups[j].convs[len(groups[j].convs)-1]
		if !li.Timestamp.Equal(lj.Timestamp) {
			return li.Timestamp.Before(lj.Timestamp)
		}
		return groups[i].id < groups[j].id
	})
	return groups
}

// SelectCompact prepends a compact digest of the last exchanges to prompt.
// Exchanges whose cleaned text is empty on either side are skipped; if none
// survive cleaning, the prompt passes through unchanged.
func SelectCompact(convs []types.Conversation, prompt string) string {
	ordered := make([]types.Conversation, len(convs))
	copy(ordered, convs)
	sortByTime(ordered)

	start := len(ordered) - compactRecallDepth
	if start < 0 {
		start = 0
	}

	var parts []string
	for _, conv := range ordered[start:] {
		user := cleanText(conv.UserMessage, compactUserLimit)
		assistant := cleanText(conv.AssistantResponse, compactAssistantLimit)
		if user == "" || assistant == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("U:%q A:%q", user, assistant))
	}
	if len(parts) == 0 {
		return prompt
	}
	return "[PREV: " + strings.Join(parts, "; ") + "]\n\n" + prompt
}

func sortByTime(convs []types.Conversation) {
	sort.Slice(convs, func(i, j int) bool {
		if !convs[i].Timestamp.Equal(convs[j].Timestamp) {
			return convs[i].Timestamp.Before(convs[j].Timestamp)
		}
		return convs[i].ID.String() < convs[j].ID.String()
	})
}
