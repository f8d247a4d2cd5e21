package usecases

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

const (
	unavailable     = "tidak tersedia"
	noDeclaration   = "tidak ada"
	percentMultiple = 100
)

var assetFormat = rowFormat{
	describe:  describeAsset,
	numbered:  true,
	separator: "\n",
}

// FormatAsset renders transmission-line matches as numbered sentences.
func FormatAsset(m entities.MatchResult, keyword string) entities.Rendered {
	return renderMatches(m, keyword, assetFormat)
}

func describeAsset(ds *entities.Dataset, row entities.Row) string {
	origin := upperOr(ds, row, entities.FieldOrigin, unavailable)
	destination := upperOr(ds, row, entities.FieldDestination, unavailable)

	circuit := ""
	if v := ds.Cell(row, entities.FieldCircuit); !v.IsMissing() {
		circuit = " SIRKIT " + strings.ToUpper(strings.TrimSpace(v.String()))
	}

	return fmt.Sprintf(
		"SUTET %s-%s%s ada di wilayah %s dengan panjang penghantar %s km dan kemampuan maksimal sebesar %s A, %s %% dari nominal %s A. Alasan Derating: %s.",
		origin, destination, circuit,
		upperOr(ds, row, entities.FieldRegion, unavailable),
		textOr(ds, row, entities.FieldLength, unavailable),
		textOr(ds, row, entities.FieldCapacity, unavailable),
		declaredPercent(ds.Cell(row, entities.FieldDeclared)),
		textOr(ds, row, entities.FieldNominal, unavailable),
		textOr(ds, row, entities.FieldDerating, unavailable),
	)
}

// declaredPercent shows the stored fraction as a percentage with at least one
// decimal place: 0.9 -> 90.0, 0.575 -> 57.5.
func declaredPercent(v entities.Value) string {
	f, ok := v.Float()
	if !ok {
		if v.IsMissing() {
			return noDeclaration
		}
		return strings.TrimSpace(v.String())
	}
	s := decimal.NewFromFloat(f).Mul(decimal.NewFromInt(percentMultiple)).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
