package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/usecases"
)

func TestStrip_RemovesHighlight(t *testing.T) {
	c := NewConverter()
	text := "1. SUTET " + usecases.HighlightMarker("gitet a") + "-GITET B ada di wilayah JAKARTA"

	got := c.Strip(text)
	assert.Equal(t, "1. SUTET GITET A-GITET B ada di wilayah JAKARTA", got)
	assert.NotContains(t, got, "<")
}

func TestStrip_KeepsMarkdownAndEntities(t *testing.T) {
	c := NewConverter()
	in := "## ***" + usecases.HighlightMarker("a&b") + "***\n- Buka PMT"
	assert.Equal(t, "## ***A&B***\n- Buka PMT", c.Strip(in))
}

func TestMarkdown_GenerationView(t *testing.T) {
	ds, err := entities.NewDataset(entities.Generation, "g",
		[]string{"Perusahaan", "Jenis Pembangkit", "Nama Unit", "Wilayah", "DMN", "TML"},
		[][]entities.Value{
			{entities.TextValue("Acme"), entities.TextValue("PLTU"), entities.TextValue("U1"), entities.TextValue("North"), entities.NumberValue(10), entities.NumberValue(8)},
		})
	require.NoError(t, err)
	view := usecases.NewGenerationFormatter(usecases.RegionScopeMatch).Format(ds, "acme")
	require.True(t, view.Found)

	md, err := NewConverter().Markdown(view.HTML)
	require.NoError(t, err)

	assert.NotContains(t, md, "<table")
	assert.NotContains(t, md, "<h3")
	assert.Contains(t, md, "### Perusahaan:")
	assert.Contains(t, md, "| Perusahaan")
	assert.Contains(t, md, "10.00")
	assert.True(t, strings.Contains(md, "Total Keseluruhan"))
}

func TestMarkdown_PlainTextUnchanged(t *testing.T) {
	md, err := NewConverter().Markdown(entities.NotFoundMessage)
	require.NoError(t, err)
	assert.Equal(t, entities.NotFoundMessage, md)
}
