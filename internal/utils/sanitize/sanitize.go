// Package sanitize turns user-typed note text into plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every tag and attribute. bluemonday policies are safe for
// concurrent use once built, so it must not be mutated after init.
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true) // "<b>a</b><b>b</b>" stays two words
	return p
}()

// Clean strips markup, unescapes entities and collapses runs of blanks
// inside each line. Line breaks survive.
//
//   - "<p>hi</p>" -> "hi"
//   - "<b>a</b> <b>b</b>" -> "a b"
//   - "&nbsp;x" -> "x"
func Clean(s string) string {
	s = strings.TrimSpace(strict.Sanitize(s))
	s = html.UnescapeString(s)
	// non-breaking spaces would defeat search
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Title cleans s and folds it onto one line.
func Title(s string) string {
	return strings.Join(strings.Fields(Clean(s)), " ")
}

// Content cleans s and keeps at most one blank line between paragraphs.
func Content(s string) string {
	lines := strings.Split(Clean(s), "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
