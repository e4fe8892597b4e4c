// Package ingestion turns resume documents (PDF, DOCX, HTML, plain text; local or in S3)
// into cleaned text.
package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-matcher/internal/fetch"
)

var (
	spaceRun       = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRun   = regexp.MustCompile(`\n\n\n+`)
	bulletPrefixes = []string{"- ", "* ", "• ", "· ", "◦ ", "▪ "}
)

// CleanText normalizes line endings, collapses runs of spaces, and keeps at most one
// blank line between blocks. Headings and bullet lines keep their markers.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving indentation before bullets
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return spaceRun.ReplaceAllString(trimmed, " ")
	}

	indent := len(line) - len(trimmed)
	body := spaceRun.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) && indent > 0 {
		return strings.Repeat(" ", indent) + body
	}
	return body
}

func isBulletLine(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// HTMLToText extracts the readable text of an HTML document.
func HTMLToText(html string) (string, error) {
	text, err := fetch.ExtractMainText(html, fetch.DefaultTextSelectors())
	if err != nil {
		return "", &ExtractionError{Source: "html", Message: "failed to parse HTML", Cause: err}
	}
	return CleanText(text), nil
}
