package usecases

import (
	"fmt"
	"strings"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

const (
	noLine       = "SUTET tidak ditemukan"
	noN1         = "Data N-1 tidak ditemukan"
	noMitigation = "Tidak ada mitigasi yang tersedia."
)

var mitigationFormat = rowFormat{
	describe:  describeMitigation,
	separator: "\n\n",
}

// FormatMitigation renders contingency matches as markdown sections.
func FormatMitigation(m entities.MatchResult, keyword string) entities.Rendered {
	return renderMatches(m, keyword, mitigationFormat)
}

func describeMitigation(ds *entities.Dataset, row entities.Row) string {
	line := upperOr(ds, row, entities.FieldLine, noLine)

	var b strings.Builder
	fmt.Fprintf(&b, "## ***%s***\n\n", line)
	fmt.Fprintf(&b, "Jika terjadi gangguan di ruas **%s**, mitigasi yang harus dilakukan adalah sebagai berikut:\n\n", line)

	stages := []struct {
		label       string
		segment     entities.FieldKey
		placeholder string
		steps       entities.FieldKey
	}{
		{"N-1", entities.FieldN1, noN1, entities.FieldMitigation1},
		{"N-1-1", entities.FieldN11, unavailable, entities.FieldMitigation2},
		{"N-1-2", entities.FieldN12, unavailable, entities.FieldMitigation3},
	}
	for i, s := range stages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		segment := upperOr(ds, row, s.segment, s.placeholder)
		fmt.Fprintf(&b, "**MITIGASI %s** di ruas **%s**:\n%s", s.label, segment, bulletSteps(ds.Cell(row, s.steps)))
	}

	if notes := ds.Cell(row, entities.FieldNotes); !notes.IsMissing() {
		fmt.Fprintf(&b, "\n\n**Keterangan:** %s", strings.TrimSpace(notes.String()))
	}
	return b.String()
}

// bulletSteps turns a multi-line free-text field into a markdown bullet list.
func bulletSteps(v entities.Value) string {
	if v.IsMissing() {
		return noMitigation
	}
	var steps []string
	for _, l := range strings.Split(strings.ReplaceAll(v.String(), "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			steps = append(steps, "- "+l)
		}
	}
	if len(steps) == 0 {
		return noMitigation
	}
	return strings.Join(steps, "\n")
}
