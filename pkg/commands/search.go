package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/memory/search"
)

// Search runs a relevance query against the project store and renders the
// ranked results.
func Search(project *config.Project, log *logging.Logger, w io.Writer, query string, limit int) error {
	if err := requireProject(project); err != nil {
		return err
	}

	start := time.Now()
	store, cfg, err := openProjectStore(project)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = cfg.Context.MaxResults
	}

	ctx := background()
	convs, err := store.All(ctx)
	if err != nil {
		return err
	}

	engine := search.New()
	results := engine.RankAbove(convs, query, limit, cfg.Context.RelevanceThreshold)
	elapsed := time.Since(start)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Searching project for %q", query)))

	if len(results) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No conversations found matching the query"))
		fmt.Fprintln(w, labelStyle.Render("Try different keywords, or run 'offcontext import' to bring in past conversations"))
		return nil
	}

	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("Found %d results in %s", len(results), elapsed.Round(time.Millisecond))))
	fmt.Fprintln(w)

	for i, result := range results {
		conv := result.Conversation
		fmt.Fprintf(w, "%s %s\n",
			titleStyle.Render(fmt.Sprintf("Result %d", i+1)),
			labelStyle.Render(fmt.Sprintf("(score %.2f, %s)", result.Score, relativeTime(conv.Timestamp))))

		if conv.Metadata.ProjectPath != "" {
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("project:"), valueStyle.Render(conv.Metadata.ProjectPath))
		}
		if len(conv.Metadata.Tags) > 0 {
			fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("tags:"), valueStyle.Render(strings.Join(conv.Metadata.Tags, ", ")))
		}
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("tokens:"), valueStyle.Render(fmt.Sprintf("%d", conv.Metadata.TokenCount)))

		for _, line := range strings.Split(result.Snippet, "\n") {
			fmt.Fprintln(w, snippetStyle.Render(line))
		}
		fmt.Fprintln(w)
	}

	total, err := store.Count(ctx)
	if err != nil {
		log.Debugf("search: count conversations: %v", err)
	}
	fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("%d of max %d results, %d conversations total, %s",
		len(results), limit, total, elapsed.Round(time.Millisecond))))
	return nil
}

// relativeTime renders a timestamp with a coarse human distance.
func relativeTime(t time.Time) string {
	d := time.Since(t)
	stamp := t.Format("2006-01-02 15:04:05")
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%s, %d days ago", stamp, int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%s, %d hours ago", stamp, int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%s, %d minutes ago", stamp, int(d.Minutes()))
	default:
		return fmt.Sprintf("%s, just now", stamp)
	}
}
