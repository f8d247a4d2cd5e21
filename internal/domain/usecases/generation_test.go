package usecases

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestGeneration_CompanyRollup(t *testing.T) {
	view := NewGenerationFormatter(RegionScopeMatch).Format(sampleGeneration(t), "acme")
	require.True(t, view.Found)

	assert.Equal(t, ModeCompany, view.Mode)
	assert.Equal(t, "ACME", view.Title)
	require.Len(t, view.Regions, 2)
	assert.Equal(t, "NORTH", view.Regions[0].Region)
	assert.Equal(t, "SOUTH", view.Regions[1].Region)
	assertDecimal(t, "10", view.Regions[0].DMN)
	assertDecimal(t, "20", view.Regions[1].DMN)
	assertDecimal(t, "30", view.Total.DMN)
	assertDecimal(t, "12.5", view.Total.TML)
	assert.Equal(t, 2, view.Total.Rows)

	assert.Contains(t, view.HTML, "<h3>Perusahaan: "+HighlightMarker("acme")+"</h3>")
	assert.Contains(t, view.HTML, "<h4>Wilayah: NORTH</h4>")
	assert.Contains(t, view.HTML, "<h4>Wilayah: SOUTH</h4>")
	assert.Contains(t, view.HTML, "<td><strong>30.00</strong></td><td><strong>12.50</strong></td>")
}

func TestGeneration_TotalIsSumOfRoundedSubtotals(t *testing.T) {
	ds := newDataset(t, entities.Generation, generationHeaders,
		[]entities.Value{txt("Delta"), txt("PLTS"), txt("D1"), txt("East"), num(1.005), num(0.004)},
		[]entities.Value{txt("Delta"), txt("PLTS"), txt("D2"), txt("West"), num(1.005), num(0.004)},
		[]entities.Value{txt("Delta"), txt("PLTS"), txt("D3"), txt("Central"), num(1.005), num(0.004)},
	)
	view := NewGenerationFormatter(RegionScopeMatch).Format(ds, "delta")
	require.True(t, view.Found)
	require.Len(t, view.Regions, 3)

	dmn, tml := decimal.Zero, decimal.Zero
	for _, r := range view.Regions {
		assertDecimal(t, "1.01", r.DMN)
		assertDecimal(t, "0", r.TML)
		dmn = dmn.Add(r.DMN)
		tml = tml.Add(r.TML)
	}
	assert.True(t, view.Total.DMN.Equal(dmn))
	assert.True(t, view.Total.TML.Equal(tml))
	assertDecimal(t, "3.03", view.Total.DMN)
}

func TestGeneration_NormalizationIsIdempotent(t *testing.T) {
	ds := sampleGeneration(t)
	f := NewGenerationFormatter(RegionScopeMatch)

	first := f.Format(ds, "north")
	second := f.Format(ds, "north")
	assert.Equal(t, first, second)

	for _, row := range ds.Rows {
		assert.Equal(t, entities.Number, ds.Cell(row, entities.FieldDMN).Kind)
		assert.Equal(t, entities.Number, ds.Cell(row, entities.FieldTML).Kind)
	}
	assert.Equal(t, num(0), ds.Cell(ds.Rows[1], entities.FieldDMN))
	assert.Equal(t, num(12.5), ds.Cell(ds.Rows[0], entities.FieldTML))

	NormalizeNumeric(ds)
	assert.Equal(t, first, f.Format(ds, "north"))
}

func TestGeneration_CategoryMode(t *testing.T) {
	view := NewGenerationFormatter(RegionScopeMatch).Format(sampleGeneration(t), "pltu")
	require.True(t, view.Found)

	assert.Equal(t, ModeCategory, view.Mode)
	assert.Equal(t, "PLTU", view.Title)
	require.Len(t, view.Regions, 2)
	assertDecimal(t, "10", view.Regions[0].DMN)
	assertDecimal(t, "5.56", view.Regions[1].DMN)
	assertDecimal(t, "1.01", view.Regions[1].TML)
	assertDecimal(t, "15.56", view.Total.DMN)
	assertDecimal(t, "13.51", view.Total.TML)
	assert.Contains(t, view.HTML, "<h3>Jenis Pembangkit: ")
}

func TestGeneration_UnitMode(t *testing.T) {
	view := NewGenerationFormatter(RegionScopeMatch).Format(sampleGeneration(t), "unit 1")
	require.True(t, view.Found)

	assert.Equal(t, ModeUnit, view.Mode)
	assert.Equal(t, "UNIT 1", view.Title)
	assert.Equal(t, 2, view.Total.Rows)
	assert.Contains(t, view.HTML, "<h3>Unit: ")
}

func TestGeneration_RegionMode(t *testing.T) {
	for _, scope := range []RegionScope{RegionScopeMatch, RegionScopeDataset} {
		view := NewGenerationFormatter(scope).Format(sampleGeneration(t), "south")
		require.True(t, view.Found, "scope %s", scope)

		assert.Equal(t, ModeRegion, view.Mode)
		require.Len(t, view.Regions, 1)
		assert.Equal(t, "SOUTH", view.Regions[0].Region)
		assertDecimal(t, "25.56", view.Total.DMN)
		assertDecimal(t, "1.01", view.Total.TML)
		assert.Contains(t, view.HTML, "<h3>Wilayah: ")
		assert.NotContains(t, view.HTML, "<h4>Wilayah:")
	}
}

func TestGeneration_ModePriority(t *testing.T) {
	view := NewGenerationFormatter(RegionScopeMatch).Format(sampleGeneration(t), "ACME UNIT")
	require.True(t, view.Found)
	assert.Equal(t, ModeUnit, view.Mode)

	// "acme" is both a company and part of the unit names.
	view = NewGenerationFormatter(RegionScopeMatch).Format(sampleGeneration(t), "Acme")
	assert.Equal(t, ModeCompany, view.Mode)
}

func TestGeneration_NotFound(t *testing.T) {
	f := NewGenerationFormatter(RegionScopeMatch)

	view := f.Format(sampleGeneration(t), "papua")
	assert.False(t, view.Found)
	assert.Equal(t, entities.NotFoundMessage, view.HTML)

	view = f.Format(nil, "acme")
	assert.False(t, view.Found)
	assert.Equal(t, entities.NotFoundMessage, view.HTML)
}

func TestGeneration_RowsRenderFixedScale(t *testing.T) {
	view := NewGenerationFormatter(RegionScopeMatch).Format(sampleGeneration(t), "gamma")
	require.True(t, view.Found)
	assert.Contains(t, view.HTML, "<td>5.56</td><td>1.01</td>")
	assert.Equal(t, 1, strings.Count(view.HTML, `class="subtotal"`))
	assert.Equal(t, 1, strings.Count(view.HTML, `class="total"`))
}

func TestGeneration_EscapesCells(t *testing.T) {
	ds := newDataset(t, entities.Generation, generationHeaders,
		[]entities.Value{txt("A&B <Energi>"), txt("PLTD"), txt("AB-1"), txt("Timur"), num(1), num(1)},
	)
	view := NewGenerationFormatter(RegionScopeMatch).Format(ds, "energi")
	require.True(t, view.Found)
	assert.Contains(t, view.HTML, "A&amp;B &lt;"+HighlightMarker("energi")+"&gt;")
}
