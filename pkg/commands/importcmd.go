package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory/transcript"
)

// transcriptGlobs match the file names the assistant runtime writes
// transcripts to.
var transcriptGlobs = []glob.Glob{
	glob.MustCompile("*.json"),
	glob.MustCompile("*.jsonl"),
}

// nameHints are substrings that mark a JSON file as a likely transcript even
// when the runtime gives it an opaque name.
var nameHints = []string{"transcript", "conversation", "claude"}

// importScanDepth bounds the directory walk below the import root.
const importScanDepth = 5

// minTranscriptSize filters out trivially small JSON files when the name
// carries no hint.
const minTranscriptSize = 100

// ImportSummary reports a whole batch import, per-item.
type ImportSummary struct {
	FilesScanned  int
	FilesImported int
	FilesFailed   int
	Conversations int
}

// Import scans path (or the runtime's default data directory when empty) for
// transcript files and ingests them into the project store. Individual file
// failures are reported and skipped; they never abort the batch.
func Import(project *config.Project, log *logging.Logger, w io.Writer, path string) (ImportSummary, error) {
	var sum ImportSummary
	if err := requireProject(project); err != nil {
		return sum, err
	}

	root := path
	if root == "" {
		var err error
		root, err = defaultImportDir()
		if err != nil {
			return sum, err
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Importing conversations"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("scanning:"), valueStyle.Render(root))

	if _, err := os.Stat(root); err != nil {
		return sum, fmt.Errorf("import path does not exist: %s", root)
	}

	files, err := findTranscriptFiles(root)
	if err != nil {
		return sum, err
	}
	sum.FilesScanned = len(files)
	if len(files) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No transcript files found"))
		return sum, nil
	}

	store, _, err := openProjectStore(project)
	if err != nil {
		return sum, err
	}

	ctx := background()
	for i, file := range files {
		progress := fmt.Sprintf("[%d/%d]", i+1, len(files))
		convs, err := transcript.Parse(file)
		if err != nil {
			sum.FilesFailed++
			fmt.Fprintf(w, "  %s %s\n", progress, warnStyle.Render(fmt.Sprintf("%s: skipped (%v)", filepath.Base(file), err)))
			continue
		}

		stored := 0
		for _, conv := range convs {
			if err := store.Insert(ctx, conv); err != nil {
				log.Warnf("import: store conversation %s: %v", conv.ID, err)
				continue
			}
			stored++
		}
		if stored > 0 {
			fmt.Fprintf(w, "  %s %s\n", progress, okStyle.Render(fmt.Sprintf("%s: %d conversations", filepath.Base(file), stored)))
		}
		sum.FilesImported++
		sum.Conversations += stored
	}

	total, err := store.Count(ctx)
	if err != nil {
		log.Debugf("import: count conversations: %v", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Import summary"))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("files scanned:"), sum.FilesScanned)
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("files imported:"), sum.FilesImported)
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("files failed:"), sum.FilesFailed)
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("conversations imported:"), sum.Conversations)
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("conversations in store:"), total)
	return sum, nil
}

// findTranscriptFiles walks root to a bounded depth collecting candidate
// transcript files, newest first by modification time.
func findTranscriptFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return fs.SkipDir
		}
		if d.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && rel != "." && strings.Count(rel, string(filepath.Separator)) >= importScanDepth {
				return fs.SkipDir
			}
			return nil
		}
		if isTranscriptFile(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return fileModTime(files[i]).After(fileModTime(files[j]))
	})
	return files, nil
}

func isTranscriptFile(path string, d fs.DirEntry) bool {
	base := filepath.Base(path)
	matched := false
	for _, g := range transcriptGlobs {
		if g.Match(base) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	lower := strings.ToLower(base)
	for _, hint := range nameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	if info, err := d.Info(); err == nil && info.Size() > minTranscriptSize {
		return true
	}
	return false
}

func fileModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// defaultImportDir locates the runtime's conversation data directory.
func defaultImportDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	candidates := []string{
		filepath.Join(home, ".claude"),
		filepath.Join(home, ".config", "claude"),
		filepath.Join(home, "Library", "Application Support", "claude"),
		filepath.Join(home, "AppData", "Roaming", "claude"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return candidates[0], nil
}
