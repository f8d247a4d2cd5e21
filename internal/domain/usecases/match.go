// Package usecases contains application business rules: keyword matching, per-dataset
// rendering, aggregation and answer extraction. They depend on port interfaces only.
package usecases

import (
	"strings"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// Match returns the rows of ds with at least one non-missing cell containing keyword.
// Comparison is a case-insensitive literal substring test; keyword characters have no
// pattern meaning. Source row order is preserved.
func Match(ds *entities.Dataset, keyword string) entities.MatchResult {
	result := entities.MatchResult{Dataset: ds}
	if ds == nil {
		return result
	}
	needle := strings.ToLower(keyword)
	for _, row := range ds.Rows {
		if rowContains(row, needle) {
			result.Rows = append(result.Rows, row)
		}
	}
	return result
}

func rowContains(row entities.Row, needle string) bool {
	for _, cell := range row.Cells {
		if cell.IsMissing() {
			continue
		}
		if strings.Contains(strings.ToLower(cell.String()), needle) {
			return true
		}
	}
	return false
}

// containsFold reports whether v's rendering contains keyword, ignoring case.
// Missing cells never contain anything.
func containsFold(v entities.Value, keyword string) bool {
	if v.IsMissing() {
		return false
	}
	return strings.Contains(strings.ToLower(v.String()), strings.ToLower(keyword))
}

// filterRows keeps the rows whose key field contains keyword.
func filterRows(ds *entities.Dataset, rows []entities.Row, key entities.FieldKey, keyword string) []entities.Row {
	var out []entities.Row
	for _, row := range rows {
		if containsFold(ds.Cell(row, key), keyword) {
			out = append(out, row)
		}
	}
	return out
}
