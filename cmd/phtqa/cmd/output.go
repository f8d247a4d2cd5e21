package cmd

import (
	"fmt"
	"strings"

	"github.com/0xcro3dile/phtqa/internal/adapters/markup"
	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/usecases"
)

type outputOptions struct {
	plain    bool
	markdown bool
}

var sectionTitles = map[entities.DatasetKind]string{
	entities.Asset:      "PHT",
	entities.Mitigation: "Mitigasi N-1",
	entities.Generation: "Pembangkit",
}

// formatLookup renders the selected sections of a lookup for the terminal.
func formatLookup(conv *markup.Converter, res *usecases.LookupResult, kinds []entities.DatasetKind, opts outputOptions) (string, error) {
	var b strings.Builder
	for i, kind := range kinds {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "== %s ==\n", sectionTitles[kind])

		var body string
		switch kind {
		case entities.Asset:
			body = res.Asset.Response
		case entities.Mitigation:
			body = res.Mitigation.Response
		case entities.Generation:
			body = res.Generation.HTML
			if opts.markdown {
				md, err := conv.Markdown(body)
				if err != nil {
					return "", err
				}
				body = md
			}
		}
		if opts.plain {
			body = conv.Strip(body)
		}
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}
