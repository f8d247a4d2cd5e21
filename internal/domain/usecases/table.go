package usecases

import (
	"strings"
	"text/tabwriter"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// missingCell is how missing values appear in plain-text tables.
const missingCell = "NaN"

// TextTable renders headers and rows as right-aligned fixed-width columns
// without a row index.
func TextTable(headers []string, rows [][]string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)
	writeLine := func(cells []string) {
		for _, c := range cells {
			w.Write([]byte(strings.ReplaceAll(c, "\t", " ") + "\t"))
		}
		w.Write([]byte("\n"))
	}
	writeLine(headers)
	for _, r := range rows {
		writeLine(r)
	}
	w.Flush()

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// ContextTable renders every column of the matched rows.
func ContextTable(m entities.MatchResult) string {
	if m.Dataset == nil {
		return ""
	}
	return TextTable(m.Dataset.Headers, cellStrings(m.Rows, nil))
}

// projectTable renders the given fields of rows, headed by the source headers.
func projectTable(ds *entities.Dataset, rows []entities.Row, keys ...entities.FieldKey) string {
	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = ds.Header(k)
	}
	return TextTable(headers, cellStrings(rows, func(row entities.Row) []entities.Value {
		cells := make([]entities.Value, len(keys))
		for i, k := range keys {
			cells[i] = ds.Cell(row, k)
		}
		return cells
	}))
}

func cellStrings(rows []entities.Row, pick func(entities.Row) []entities.Value) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := row.Cells
		if pick != nil {
			cells = pick(row)
		}
		line := make([]string, len(cells))
		for j, c := range cells {
			if c.IsMissing() {
				line[j] = missingCell
				continue
			}
			line[j] = strings.ReplaceAll(c.String(), "\n", " ")
		}
		out[i] = line
	}
	return out
}
