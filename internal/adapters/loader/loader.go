// Package loader provides dataset loading adapters.
// Clean Architecture: Adapter implementing ports.DatasetLoader.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/ports"
)

// ErrUnsupportedFormat is returned for a source whose extension no loader handles.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// MultiLoader combines multiple loaders.
type MultiLoader struct {
	loaders map[string]ports.DatasetLoader
}

// NewMultiLoader creates a loader that handles CSV, Excel and SQLite sources.
func NewMultiLoader() *MultiLoader {
	m := &MultiLoader{loaders: make(map[string]ports.DatasetLoader)}
	m.Register(NewCSVLoader())
	m.Register(NewXLSXLoader())
	m.Register(NewSQLiteLoader())
	return m
}

// Register adds l for every extension it supports, replacing earlier registrations.
func (m *MultiLoader) Register(l ports.DatasetLoader) {
	for _, ext := range l.SupportedExtensions() {
		m.loaders[strings.ToLower(ext)] = l
	}
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, src entities.Source) (*entities.Table, error) {
	ext := strings.ToLower(filepath.Ext(src.Path))
	l, ok := m.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return l.Load(ctx, src)
}

// SupportedExtensions returns all supported extensions.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// buildTable turns raw records into a table. The first record is the header;
// fully blank records are dropped. Cells stay text unless numeric reports that the
// source stored a typed number at (record, column); nil means no typed cells.
func buildTable(records [][]string, numeric func(rec, col int) bool) (*entities.Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	table := &entities.Table{Headers: headers}
	for r, rec := range records[1:] {
		row := make([]entities.Value, len(rec))
		blank := true
		for i, raw := range rec {
			row[i] = entities.ParseCell(raw)
			if row[i].IsMissing() {
				continue
			}
			blank = false
			if numeric != nil && numeric(r+1, i) {
				if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
					row[i] = entities.NumberValue(f)
				}
			}
		}
		if !blank {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}
