package transcript

import (
	"os"
	"path/filepath"
	"strings"
)

// projectMarkers are the files and directories whose presence identifies a
// project root when walking up from a transcript's location.
var projectMarkers = []string{
	".git",
	"go.mod",
	"Cargo.toml",
	"package.json",
	"pyproject.toml",
}

// detectProjectPath walks the transcript's containing directories upward
// until one holds a recognizable project marker. No marker means no project
// path.
func detectProjectPath(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// tagKeywords maps detected substrings to emitted tags. Detection iterates
// this table once in order, so tags are duplicate-free and ordered by
// table position.
var tagKeywords = []struct {
	keyword string
	tag     string
}{
	{"rust", "rust"},
	{"python", "python"},
	{"javascript", "javascript"},
	{"typescript", "typescript"},
	{"react", "react"},
	{"node", "nodejs"},
	{"api", "api"},
	{"database", "database"},
	{"sql", "sql"},
	{"auth", "authentication"},
	{"test", "testing"},
	{"debug", "debugging"},
	{"performance", "performance"},
	{"security", "security"},
}

// extractTags runs the fixed keyword table over the lower-cased user message.
func extractTags(content string) []string {
	lower := strings.ToLower(content)
	tags := []string{}
	for _, kw := range tagKeywords {
		if strings.Contains(lower, kw.keyword) {
			tags = append(tags, kw.tag)
		}
	}
	return tags
}
