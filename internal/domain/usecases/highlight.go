package usecases

import (
	"html"
	"regexp"
	"strings"
)

const (
	highlightOpen  = `<span style="background-color: yellow">`
	highlightClose = `</span>`
)

// HighlightMarker is the inline markup substituted for every keyword occurrence.
// It always carries the upper-cased keyword, whatever the case of the matched text.
func HighlightMarker(keyword string) string {
	return highlightOpen + strings.ToUpper(keyword) + highlightClose
}

// highlighter holds the compiled keyword pattern for one render.
// A zero keyword leaves text untouched.
type highlighter struct {
	pattern    *regexp.Regexp
	marker     string
	cellMarker string
}

// newHighlighter compiles keyword as an escaped, case-insensitive literal.
func newHighlighter(keyword string) *highlighter {
	if keyword == "" {
		return &highlighter{}
	}
	return &highlighter{
		pattern:    regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword)),
		marker:     HighlightMarker(keyword),
		cellMarker: highlightOpen + html.EscapeString(strings.ToUpper(keyword)) + highlightClose,
	}
}

func (h *highlighter) text(s string) string {
	if h.pattern == nil {
		return s
	}
	return h.pattern.ReplaceAllLiteralString(s, h.marker)
}

func (h *highlighter) cell(s string) string {
	if h.pattern == nil {
		return html.EscapeString(s)
	}
	var b strings.Builder
	last := 0
	for _, loc := range h.pattern.FindAllStringIndex(s, -1) {
		b.WriteString(html.EscapeString(s[last:loc[0]]))
		b.WriteString(h.cellMarker)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(s[last:]))
	return b.String()
}

// Highlight wraps every case-insensitive occurrence of keyword in text.
func Highlight(text, keyword string) string {
	return newHighlighter(keyword).text(text)
}

// HighlightCell is Highlight for HTML table cells: the text around each
// occurrence is HTML-escaped, the marker is not.
func HighlightCell(text, keyword string) string {
	return newHighlighter(keyword).cell(text)
}
