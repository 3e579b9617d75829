// Package sanitize cleans free text submitted by customers before it is
// stored in order metadata.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTag    = regexp.MustCompile(`<[a-zA-Z/!?][^<>]*>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t\f\v]+`)
)

// Text strips markup and entities, collapses runs of spaces and tabs, and
// keeps at most one empty line between paragraphs. A '<' not followed by a
// letter, '/', '!' or '?' is text, so comparisons survive.
func Text(s string) string {
	s = htmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	// entities may have encoded a tag
	s = htmlTag.ReplaceAllString(s, "")

	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

// TextPtr applies Text to an optional value.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
