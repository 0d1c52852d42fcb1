package inject

import "strings"

// minPromptLength is the floor below which a prompt is never enhanced;
// anything shorter is a quick command or acknowledgement.
const minPromptLength = 10

// acknowledgements are exact prompts that never benefit from injected
// context.
var acknowledgements = []string{
	"hi", "hello", "help", "thanks", "thank you", "yes", "no", "ok", "okay",
	"continue", "go on", "next", "stop", "quit", "exit",
}

// Bypass reports whether the prompt should skip context injection entirely:
// either it is below the length floor or it exact-matches a known
// acknowledgement phrase (case-insensitive, surrounding whitespace ignored).
func Bypass(prompt string) bool {
	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) < minPromptLength {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, ack := range acknowledgements {
		if lower == ack {
			return true
		}
	}
	return false
}
