package entities

import "strings"

// FieldKey names a column independently of the header text used by the source file.
type FieldKey string

// Asset fields.
const (
	FieldOrigin      FieldKey = "origin"
	FieldDestination FieldKey = "destination"
	FieldCircuit     FieldKey = "circuit"
	FieldLength      FieldKey = "length"
	FieldNominal     FieldKey = "nominal"
	FieldCapacity    FieldKey = "capacity"
	FieldRegion      FieldKey = "region"
	FieldDerating    FieldKey = "derating"
	FieldDeclared    FieldKey = "declared"
)

// Mitigation fields.
const (
	FieldLine        FieldKey = "line"
	FieldN1          FieldKey = "n1"
	FieldMitigation1 FieldKey = "mitigation1"
	FieldN11         FieldKey = "n11"
	FieldMitigation2 FieldKey = "mitigation2"
	FieldN12         FieldKey = "n12"
	FieldMitigation3 FieldKey = "mitigation3"
	FieldNotes       FieldKey = "notes"
)

// Generation fields. FieldRegion is shared with the asset schema.
const (
	FieldCompany  FieldKey = "company"
	FieldCategory FieldKey = "category"
	FieldUnit     FieldKey = "unit"
	FieldDMN      FieldKey = "dmn"
	FieldTML      FieldKey = "tml"
)

// Field describes one expected column.
type Field struct {
	Key      FieldKey
	Label    string
	Aliases  []string
	Required bool
}

// Schema lists the columns of a dataset kind.
type Schema struct {
	Kind   DatasetKind
	Fields []Field
}

var schemas = map[DatasetKind]Schema{
	Asset: {Kind: Asset, Fields: []Field{
		{Key: FieldOrigin, Label: "Dari Gitet/Gistet", Required: true},
		{Key: FieldDestination, Label: "Ke Gitet/Gistet", Required: true},
		{Key: FieldCircuit, Label: "Sirkit", Aliases: []string{"Sirkuit", "Circuit", "No Sirkit"}},
		{Key: FieldLength, Label: "Panjang Penghantar", Aliases: []string{"Panjang Penghantar (km)"}, Required: true},
		{Key: FieldNominal, Label: "Nominal Arus (A)", Required: true},
		{Key: FieldCapacity, Label: "Kemampuan Penghantar (A)", Required: true},
		{Key: FieldRegion, Label: "Wilayah", Required: true},
		{Key: FieldDerating, Label: "Keterangan Penyebab Derating", Required: true},
		{Key: FieldDeclared, Label: "Deklarasi Kemampuan (%)", Required: true},
	}},
	Mitigation: {Kind: Mitigation, Fields: []Field{
		{Key: FieldLine, Label: "SUTET", Required: true},
		{Key: FieldN1, Label: "N-1"},
		{Key: FieldMitigation1, Label: "Mitigasi_1", Aliases: []string{"Mitigasi 1"}},
		{Key: FieldN11, Label: "N-1-1"},
		{Key: FieldMitigation2, Label: "Mitigasi_2", Aliases: []string{"Mitigasi 2"}},
		{Key: FieldN12, Label: "N-1-2"},
		{Key: FieldMitigation3, Label: "Mitigasi_3", Aliases: []string{"Mitigasi 3"}},
		{Key: FieldNotes, Label: "Keterangan", Aliases: []string{"Catatan", "Notes"}},
	}},
	Generation: {Kind: Generation, Fields: []Field{
		{Key: FieldCompany, Label: "Perusahaan", Aliases: []string{"Nama Perusahaan", "Company"}, Required: true},
		{Key: FieldCategory, Label: "Jenis Pembangkit", Aliases: []string{"Jenis", "Kategori"}, Required: true},
		{Key: FieldUnit, Label: "Nama Unit", Aliases: []string{"Unit", "Unit Pembangkit"}, Required: true},
		{Key: FieldRegion, Label: "Wilayah", Aliases: []string{"Region"}, Required: true},
		{Key: FieldDMN, Label: "DMN", Aliases: []string{"DMN (MW)"}, Required: true},
		{Key: FieldTML, Label: "TML", Aliases: []string{"TML (MW)"}, Required: true},
	}},
}

// SchemaFor returns the schema of kind.
func SchemaFor(kind DatasetKind) Schema {
	return schemas[kind]
}

// Field looks up a field by key.
func (s Schema) Field(key FieldKey) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Resolve maps each schema field to a header index. Headers compare trimmed and
// case-insensitively against the label and aliases. A missing required field
// yields a *SchemaError; missing optional fields are simply absent.
func (s Schema) Resolve(headers []string) (map[FieldKey]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		norm := normalizeHeader(h)
		if _, dup := index[norm]; !dup {
			index[norm] = i
		}
	}

	columns := make(map[FieldKey]int, len(s.Fields))
	for _, f := range s.Fields {
		names := append([]string{f.Label}, f.Aliases...)
		found := false
		for _, name := range names {
			if idx, ok := index[normalizeHeader(name)]; ok {
				columns[f.Key] = idx
				found = true
				break
			}
		}
		if !found && f.Required {
			return nil, &SchemaError{Dataset: s.Kind, Column: f.Label}
		}
	}
	return columns, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimPrefix(h, "\ufeff")), " "))
}
