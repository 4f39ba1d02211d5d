// Package social composes and publishes posts announcing approved
// content on the social platform connected by an editor.
package social

import (
	"fmt"
	"strings"
)

// maxPostChars is the platform's post length limit.
const maxPostChars = 250

// ComposePost builds the announcement text for an approved item. The
// attribution and link always survive truncation; only the excerpt is
// shortened to fit the platform limit.
func ComposePost(author, publisher, title, body, link string) string {
	byline := author
	if publisher != "" {
		byline = fmt.Sprintf("%s (%s)", author, publisher)
	}

	suffix := ""
	if link != "" {
		suffix = "\n" + link
	}

	text := fmt.Sprintf("%s: %s", byline, title)
	if excerpt := firstLine(body); excerpt != "" {
		text += " - " + excerpt
	}

	return truncate(text, maxPostChars-len([]rune(suffix))) + suffix
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// truncate shortens s to at most limit runes, replacing the final rune
// with an ellipsis when the text does not fit.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit < 1 {
		return ""
	}
	return string(runes[:limit-1]) + "…"
}
