package inject

import "strings"

// noiseSubstrings are removed wholesale from captured text before it is
// replayed. They are artifacts of earlier injections and of hook plumbing
// that leaked into transcripts.
var noiseSubstrings = []string{
	"<user-prompt-submit-hook>",
	"[CONTEXT FROM PREVIOUS CONVERSATIONS]",
	"[END CONTEXT]",
	"\x1b[2m",
	"\x1b[0m",
	"\x1b[32m",
	"[2m",
	"[0m",
	"[32m",
}

// noiseTails mark log prefixes that occasionally precede the real content;
// only the text after the last occurrence is kept.
var noiseTails = []string{
	"INFO Configuration loaded successfully",
	"Previous: User said",
}

// cleanText strips known noise substrings and control sequences, trims
// whitespace, and truncates to max characters.
func cleanText(s string, max int) string {
	for _, tail := range noiseTails {
		if idx := strings.LastIndex(s, tail); idx >= 0 {
			s = s[idx+len(tail):]
		}
	}
	for _, noise := range noiseSubstrings {
		s = strings.ReplaceAll(s, noise, "")
	}
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > max {
		s = string(runes[:max])
	}
	return s
}
