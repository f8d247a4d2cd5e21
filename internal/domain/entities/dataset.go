package entities

import (
	"fmt"
	"strings"
	"sync"
)

// DatasetKind identifies one of the three source tables.
type DatasetKind int

const (
	Asset DatasetKind = iota
	Mitigation
	Generation
)

func (k DatasetKind) String() string {
	switch k {
	case Asset:
		return "asset"
	case Mitigation:
		return "mitigation"
	case Generation:
		return "generation"
	default:
		return fmt.Sprintf("DatasetKind(%d)", int(k))
	}
}

// ParseDatasetKind maps a config name to a kind.
func ParseDatasetKind(s string) (DatasetKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "pht":
		return Asset, true
	case "mitigation", "mitigasi":
		return Mitigation, true
	case "generation", "pembangkit":
		return Generation, true
	}
	return 0, false
}

// Source describes where a dataset is loaded from.
// Sheet applies to workbooks, Table to SQLite files.
type Source struct {
	Kind  DatasetKind
	Path  string
	Sheet string
	Table string
}

// Table is a raw loaded table before schema resolution.
type Table struct {
	Headers []string
	Rows    [][]Value
}

// SchemaError reports a required column missing from a loaded table.
type SchemaError struct {
	Dataset DatasetKind
	Column  string
	Source  string
}

func (e *SchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s dataset %s: missing column %q", e.Dataset, e.Source, e.Column)
	}
	return fmt.Sprintf("%s dataset: missing column %q", e.Dataset, e.Column)
}

// Dataset is a loaded table with its columns resolved against the kind's schema.
type Dataset struct {
	Kind    DatasetKind
	Source  string
	Headers []string
	Rows    []Row

	columns map[FieldKey]int
	mu      sync.Mutex
}

// NewDataset resolves headers against the schema for kind and wraps the records.
// Short records are padded with missing cells.
func NewDataset(kind DatasetKind, source string, headers []string, records [][]Value) (*Dataset, error) {
	schema := SchemaFor(kind)
	columns, err := schema.Resolve(headers)
	if err != nil {
		if se, ok := err.(*SchemaError); ok {
			se.Source = source
		}
		return nil, err
	}

	clean := make([]string, len(headers))
	for i, h := range headers {
		clean[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		cells := make([]Value, len(headers))
		copy(cells, rec)
		for j := len(rec); j < len(headers); j++ {
			cells[j] = MissingValue()
		}
		rows[i] = Row{Index: i, Cells: cells}
	}

	return &Dataset{
		Kind:    kind,
		Source:  source,
		Headers: clean,
		Rows:    rows,
		columns: columns,
	}, nil
}

// Has reports whether the dataset carries the field.
func (d *Dataset) Has(key FieldKey) bool {
	_, ok := d.columns[key]
	return ok
}

// Cell returns the row's value for key, or missing when the column is absent.
func (d *Dataset) Cell(row Row, key FieldKey) Value {
	idx, ok := d.columns[key]
	if !ok || idx >= len(row.Cells) {
		return MissingValue()
	}
	return row.Cells[idx]
}

// Header returns the source header used for key.
func (d *Dataset) Header(key FieldKey) string {
	if idx, ok := d.columns[key]; ok {
		return d.Headers[idx]
	}
	if f, ok := SchemaFor(d.Kind).Field(key); ok {
		return f.Label
	}
	return string(key)
}

// CoerceNumeric rewrites the given columns as numbers in place.
// Unparseable and missing cells become 0. Cells that are already numeric are left
// untouched, so repeated calls write nothing.
func (d *Dataset) CoerceNumeric(keys ...FieldKey) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, key := range keys {
		idx, ok := d.columns[key]
		if !ok {
			continue
		}
		for i := range d.Rows {
			cell := d.Rows[i].Cells[idx]
			if cell.Kind == Number {
				continue
			}
			f, _ := ParseNumber(cell.Str)
			d.Rows[i].Cells[idx] = NumberValue(f)
		}
	}
}

// Catalog is the owned handle on the three loaded datasets.
// A nil entry means the dataset was not configured.
type Catalog struct {
	Asset      *Dataset
	Mitigation *Dataset
	Generation *Dataset
}

// Dataset returns the dataset for kind.
func (c *Catalog) Dataset(kind DatasetKind) *Dataset {
	if c == nil {
		return nil
	}
	switch kind {
	case Asset:
		return c.Asset
	case Mitigation:
		return c.Mitigation
	case Generation:
		return c.Generation
	}
	return nil
}

// With returns a copy of the catalog with kind replaced by ds.
func (c *Catalog) With(kind DatasetKind, ds *Dataset) *Catalog {
	next := &Catalog{}
	if c != nil {
		*next = *c
	}
	switch kind {
	case Asset:
		next.Asset = ds
	case Mitigation:
		next.Mitigation = ds
	case Generation:
		next.Generation = ds
	}
	return next
}

// Snapshot lets a fixed catalog serve as a catalog source.
func (c *Catalog) Snapshot() *Catalog { return c }
