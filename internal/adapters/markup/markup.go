// Package markup converts rendered answers for plain-text consumers.
// Highlight spans are stripped with a bluemonday strict policy and the
// Generation HTML tables are converted to markdown with html-to-markdown.
package markup

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// Converter holds the compiled sanitizer and markdown converter. It is safe for
// concurrent use.
type Converter struct {
	policy *bluemonday.Policy
	md     *converter.Converter
}

// NewConverter creates a Converter.
func NewConverter() *Converter {
	return &Converter{
		policy: bluemonday.StrictPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Strip removes every tag, keeping the text inside, and decodes entities.
// Markdown punctuation in the input is left alone.
func (c *Converter) Strip(s string) string {
	return html.UnescapeString(c.policy.Sanitize(s))
}

// Markdown converts a Generation HTML view to markdown. Text that is not HTML,
// like the not-found sentinel, comes back unchanged.
func (c *Converter) Markdown(s string) (string, error) {
	if !strings.Contains(s, "<") {
		return s, nil
	}
	out, err := c.md.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("converting html to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
