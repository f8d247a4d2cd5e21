package usecases

import (
	"fmt"
	"strings"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// rowFormat is the per-dataset part of rendering a match: how one row reads,
// whether entries are numbered, and what separates them.
type rowFormat struct {
	describe  func(ds *entities.Dataset, row entities.Row) string
	numbered  bool
	separator string
}

// renderMatches runs the shared match -> describe -> highlight -> join pipeline.
func renderMatches(m entities.MatchResult, keyword string, f rowFormat) entities.Rendered {
	if m.Empty() || m.Dataset == nil {
		return entities.NotFound()
	}

	hl := newHighlighter(keyword)
	entries := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		text := hl.text(f.describe(m.Dataset, row))
		if f.numbered {
			text = fmt.Sprintf("%d. %s", i+1, text)
		}
		entries[i] = text
	}

	return entities.Rendered{
		Context:  ContextTable(m),
		Response: strings.Join(entries, f.separator),
		Found:    true,
	}
}

// textOr returns the cell rendering, or placeholder when the cell is missing.
func textOr(ds *entities.Dataset, row entities.Row, key entities.FieldKey, placeholder string) string {
	v := ds.Cell(row, key)
	if v.IsMissing() {
		return placeholder
	}
	return strings.TrimSpace(v.String())
}

// upperOr is textOr with the present value upper-cased. Placeholders keep their case.
func upperOr(ds *entities.Dataset, row entities.Row, key entities.FieldKey, placeholder string) string {
	v := ds.Cell(row, key)
	if v.IsMissing() {
		return placeholder
	}
	return strings.ToUpper(strings.TrimSpace(v.String()))
}
