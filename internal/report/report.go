// Package report renders human-readable summaries of normalization runs
// and keeps rolling latency statistics for the stats endpoint.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/docnorm/internal/blankline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// renderer handles the pipe tables BuildMarkdown emits.
var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// BuildMarkdown produces the markdown change report for one document.
func BuildMarkdown(filename, docID string, counts blankline.Counts, duration time.Duration) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Normalization report: %s\n\n", filename)
	fmt.Fprintf(&sb, "- Document ID: `%s`\n", docID)
	fmt.Fprintf(&sb, "- Processed in: %s\n\n", duration.Round(time.Millisecond))

	sb.WriteString("| Change | Count |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Blank lines removed | %d |\n", counts.Removed)
	fmt.Fprintf(&sb, "| Blank lines added | %d |\n", counts.Added)
	fmt.Fprintf(&sb, "| Author blanks preserved | %d |\n", counts.Preserved)
	fmt.Fprintf(&sb, "| Indents aligned | %d |\n", counts.IndentFixed)
	fmt.Fprintf(&sb, "\nTotal mutations: **%d**\n", counts.Total())

	if counts.Total() == 0 {
		sb.WriteString("\nThe document already conformed to the spacing rules.\n")
	}

	return sb.String()
}

// RenderHTML converts a markdown report to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
