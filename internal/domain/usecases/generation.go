package usecases

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// Generation rendering modes, picked by which field the keyword refers to.
const (
	ModeCompany  = "company"
	ModeCategory = "category"
	ModeUnit     = "unit"
	ModeRegion   = "region"
)

// RegionScope selects the rows the region branch is tested against.
type RegionScope string

const (
	// RegionScopeMatch tests the region branch against the keyword match, like the other branches.
	RegionScopeMatch RegionScope = "match"
	// RegionScopeDataset tests the region branch against the whole dataset.
	RegionScopeDataset RegionScope = "dataset"
)

const (
	subtotalLabel = "Subtotal"
	totalLabel    = "Total Keseluruhan"
	noRegion      = "TIDAK TERSEDIA"
	capacityScale = 2
)

// GenerationFormatter renders generation-capacity rollups.
type GenerationFormatter struct {
	scope RegionScope
}

// NewGenerationFormatter creates a formatter. An unknown scope falls back to RegionScopeMatch.
func NewGenerationFormatter(scope RegionScope) *GenerationFormatter {
	if scope != RegionScopeDataset {
		scope = RegionScopeMatch
	}
	return &GenerationFormatter{scope: scope}
}

// NormalizeNumeric coerces the DMN and TML columns to numbers in place.
// Safe to repeat: already-numeric cells are not rewritten.
func NormalizeNumeric(ds *entities.Dataset) {
	if ds == nil {
		return
	}
	ds.CoerceNumeric(entities.FieldDMN, entities.FieldTML)
}

// regionGroup is one sub-table: rows of a single region plus their subtotal.
type regionGroup struct {
	total entities.RegionTotal
	rows  []entities.Row
}

// Format matches keyword against ds, decides which column it names and renders
// per-region tables with subtotals and a global total.
func (f *GenerationFormatter) Format(ds *entities.Dataset, keyword string) entities.GenerationView {
	notFound := entities.GenerationView{HTML: entities.NotFoundMessage}
	if ds == nil {
		return notFound
	}

	NormalizeNumeric(ds)
	m := Match(ds, keyword)
	if m.Empty() {
		return notFound
	}

	upper := strings.ToUpper(keyword)
	var (
		mode, label, title string
		groups             []regionGroup
	)
	companies := filterRows(ds, m.Rows, entities.FieldCompany, keyword)
	categories := filterRows(ds, m.Rows, entities.FieldCategory, keyword)
	units := filterRows(ds, m.Rows, entities.FieldUnit, keyword)

	switch {
	case len(companies) > 0:
		mode, label = ModeCompany, "Perusahaan"
		title = strings.ToUpper(strings.TrimSpace(ds.Cell(companies[0], entities.FieldCompany).String()))
		groups = groupByRegion(ds, m.Rows)
	case len(categories) > 0:
		mode, label, title = ModeCategory, "Jenis Pembangkit", upper
		groups = groupByRegion(ds, categories)
	case len(units) > 0:
		mode, label, title = ModeUnit, "Unit", upper
		groups = groupByRegion(ds, units)
	default:
		pool := m.Rows
		if f.scope == RegionScopeDataset {
			pool = ds.Rows
		}
		rows := filterRows(ds, pool, entities.FieldRegion, keyword)
		if len(rows) == 0 {
			return notFound
		}
		mode, label, title = ModeRegion, "Wilayah", upper
		groups = []regionGroup{{total: sumRows(ds, upper, rows), rows: rows}}
	}

	total := entities.RegionTotal{Region: totalLabel, DMN: decimal.Zero, TML: decimal.Zero}
	regions := make([]entities.RegionTotal, len(groups))
	for i, g := range groups {
		regions[i] = g.total
		total.Rows += g.total.Rows
		total.DMN = total.DMN.Add(g.total.DMN)
		total.TML = total.TML.Add(g.total.TML)
	}

	hl := newHighlighter(keyword)
	var b strings.Builder
	fmt.Fprintf(&b, "<h3>%s: %s</h3>\n", label, hl.cell(title))
	for _, g := range groups {
		if mode != ModeRegion {
			fmt.Fprintf(&b, "<h4>Wilayah: %s</h4>\n", hl.cell(g.total.Region))
		}
		writeGroupTable(&b, ds, g, hl)
	}
	writeTotalTable(&b, total)

	return entities.GenerationView{
		Title:   title,
		HTML:    b.String(),
		Mode:    mode,
		Found:   true,
		Regions: regions,
		Total:   total,
	}
}

// groupByRegion splits rows by region in order of first appearance.
func groupByRegion(ds *entities.Dataset, rows []entities.Row) []regionGroup {
	var order []string
	byRegion := make(map[string][]entities.Row)
	for _, row := range rows {
		region := strings.ToUpper(textOr(ds, row, entities.FieldRegion, noRegion))
		if _, seen := byRegion[region]; !seen {
			order = append(order, region)
		}
		byRegion[region] = append(byRegion[region], row)
	}

	groups := make([]regionGroup, len(order))
	for i, region := range order {
		groups[i] = regionGroup{total: sumRows(ds, region, byRegion[region]), rows: byRegion[region]}
	}
	return groups
}

// sumRows totals DMN and TML over rows, each rounded half away from zero to two places.
func sumRows(ds *entities.Dataset, region string, rows []entities.Row) entities.RegionTotal {
	dmn, tml := decimal.Zero, decimal.Zero
	for _, row := range rows {
		dmn = dmn.Add(capacity(ds.Cell(row, entities.FieldDMN)))
		tml = tml.Add(capacity(ds.Cell(row, entities.FieldTML)))
	}
	return entities.RegionTotal{
		Region: region,
		Rows:   len(rows),
		DMN:    dmn.Round(capacityScale),
		TML:    tml.Round(capacityScale),
	}
}

func capacity(v entities.Value) decimal.Decimal {
	f, ok := v.Float()
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

var generationColumns = []string{"Perusahaan", "Jenis Pembangkit", "Nama Unit", "DMN (MW)", "TML (MW)"}

func writeGroupTable(b *strings.Builder, ds *entities.Dataset, g regionGroup, hl *highlighter) {
	b.WriteString("<table>\n<thead><tr>")
	for _, c := range generationColumns {
		fmt.Fprintf(b, "<th>%s</th>", c)
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range g.rows {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			hl.cell(textOr(ds, row, entities.FieldCompany, "-")),
			hl.cell(textOr(ds, row, entities.FieldCategory, "-")),
			hl.cell(textOr(ds, row, entities.FieldUnit, "-")),
			capacity(ds.Cell(row, entities.FieldDMN)).StringFixed(capacityScale),
			capacity(ds.Cell(row, entities.FieldTML)).StringFixed(capacityScale),
		)
	}
	fmt.Fprintf(b, "<tr class=\"subtotal\"><td colspan=\"3\"><strong>%s</strong></td><td><strong>%s</strong></td><td><strong>%s</strong></td></tr>\n",
		subtotalLabel, g.total.DMN.StringFixed(capacityScale), g.total.TML.StringFixed(capacityScale))
	b.WriteString("</tbody>\n</table>\n")
}

func writeTotalTable(b *strings.Builder, total entities.RegionTotal) {
	fmt.Fprintf(b, "<h4>%s</h4>\n", html.EscapeString(totalLabel))
	b.WriteString("<table>\n<thead><tr><th>DMN (MW)</th><th>TML (MW)</th></tr></thead>\n<tbody>\n")
	fmt.Fprintf(b, "<tr class=\"total\"><td><strong>%s</strong></td><td><strong>%s</strong></td></tr>\n",
		total.DMN.StringFixed(capacityScale), total.TML.StringFixed(capacityScale))
	b.WriteString("</tbody>\n</table>\n")
}
