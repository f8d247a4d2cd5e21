package loader

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// XLSXLoader loads one worksheet of an Excel workbook.
type XLSXLoader struct{}

// NewXLSXLoader creates a new workbook loader.
func NewXLSXLoader() *XLSXLoader {
	return &XLSXLoader{}
}

// Load reads src.Sheet, or the first sheet when none is configured.
// Cells are read raw so numbers keep full precision instead of the display format.
// Only cells stored as numbers become numeric; text such as "08" stays text.
func (l *XLSXLoader) Load(ctx context.Context, src entities.Source) (*entities.Table, error) {
	f, err := excelize.OpenFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", src.Path, err)
	}
	defer f.Close()

	sheet := src.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", src.Path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, src.Path, err)
	}
	numeric := func(rec, col int) bool {
		cell, err := excelize.CoordinatesToCellName(col+1, rec+1)
		if err != nil {
			return false
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return false
		}
		// numbers are usually written without a type attribute
		return typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset
	}
	table, err := buildTable(rows, numeric)
	if err != nil {
		return nil, fmt.Errorf("sheet %q of %s: %w", sheet, src.Path, err)
	}
	return table, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *XLSXLoader) SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm"}
}
