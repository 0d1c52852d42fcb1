package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/offcontext/offcontext/pkg/config"
	"github.com/offcontext/offcontext/pkg/logging"
	"github.com/offcontext/offcontext/pkg/types"
)

// Export writes the full ordered record set to a file in the requested
// format. It goes through the store's full scan rather than an empty-query
// search, which would return nothing by the zero-score rule.
func Export(project *config.Project, log *logging.Logger, w io.Writer, format, output string) error {
	if err := requireProject(project); err != nil {
		return err
	}

	format = strings.ToLower(format)
	if output == "" {
		switch format {
		case "json":
			output = "conversations.json"
		case "md", "markdown":
			output = "conversations.md"
		default:
			output = "conversations.txt"
		}
	}

	store, _, err := openProjectStore(project)
	if err != nil {
		return err
	}
	convs, err := store.All(background())
	if err != nil {
		return err
	}
	if len(convs) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No conversations found to export"))
		return nil
	}

	var content []byte
	switch format {
	case "json":
		content, err = formatJSON(convs)
	case "md", "markdown":
		content = formatMarkdown(convs)
	case "txt", "text":
		content = formatText(convs)
	default:
		return fmt.Errorf("unsupported export format %q (supported: json, md, txt)", format)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, content, 0o600); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	log.Infof("export: wrote %d conversations to %s", len(convs), output)
	fmt.Fprintln(w, okStyle.Render("Export complete"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("file:"), valueStyle.Render(output))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("conversations:"), len(convs))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("size:"), valueStyle.Render(formatSize(int64(len(content)))))
	return nil
}

func formatJSON(convs []types.Conversation) ([]byte, error) {
	b, err := json.MarshalIndent(convs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize conversations: %w", err)
	}
	return b, nil
}

func formatMarkdown(convs []types.Conversation) []byte {
	var b strings.Builder
	b.WriteString("# Conversation History Export\n\n")
	fmt.Fprintf(&b, "*Exported on %s UTC*\n\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Total conversations:** %d\n\n---\n\n", len(convs))

	for i, conv := range convs {
		fmt.Fprintf(&b, "## Conversation %d - %s\n\n", i+1, conv.Timestamp.Format("2006-01-02 15:04:05"))
		if conv.Metadata.SessionID != "" {
			fmt.Fprintf(&b, "**Session ID:** %s\n\n", conv.Metadata.SessionID)
		}
		if conv.Metadata.ProjectPath != "" {
			fmt.Fprintf(&b, "**Project:** %s\n\n", conv.Metadata.ProjectPath)
		}
		if len(conv.Metadata.Tags) > 0 {
			fmt.Fprintf(&b, "**Tags:** %s\n\n", strings.Join(conv.Metadata.Tags, ", "))
		}
		fmt.Fprintf(&b, "**Tokens:** %d\n\n", conv.Metadata.TokenCount)
		fmt.Fprintf(&b, "### User\n\n%s\n\n", conv.UserMessage)
		fmt.Fprintf(&b, "### Assistant\n\n%s\n\n", conv.AssistantResponse)
		if i < len(convs)-1 {
			b.WriteString("---\n\n")
		}
	}
	return []byte(b.String())
}

func formatText(convs []types.Conversation) []byte {
	var b strings.Builder
	b.WriteString("CONVERSATION HISTORY EXPORT\n")
	b.WriteString("==========================\n\n")
	fmt.Fprintf(&b, "Exported on: %s UTC\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total conversations: %d\n\n", len(convs))

	for i, conv := range convs {
		fmt.Fprintf(&b, "CONVERSATION %d - %s\n", i+1, conv.Timestamp.Format("2006-01-02 15:04:05"))
		b.WriteString(strings.Repeat("-", 50) + "\n")
		if conv.Metadata.ProjectPath != "" {
			fmt.Fprintf(&b, "Project: %s\n", conv.Metadata.ProjectPath)
		}
		if len(conv.Metadata.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(conv.Metadata.Tags, ", "))
		}
		fmt.Fprintf(&b, "Tokens: %d\n\n", conv.Metadata.TokenCount)

		b.WriteString("USER:\n")
		for _, line := range strings.Split(conv.UserMessage, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString("\nASSISTANT:\n")
		for _, line := range strings.Split(conv.AssistantResponse, "\n") {
			fmt.Fprintf(&b, "< %s\n", line)
		}
		b.WriteString("\n")
		if i < len(convs)-1 {
			b.WriteString(strings.Repeat("=", 50) + "\n\n")
		}
	}
	return []byte(b.String())
}

func formatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
}
