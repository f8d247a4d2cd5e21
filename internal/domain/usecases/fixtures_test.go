package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

var (
	assetHeaders = []string{
		"Dari Gitet/Gistet", "Ke Gitet/Gistet", "Panjang Penghantar", "Nominal Arus (A)",
		"Kemampuan Penghantar (A)", "Wilayah", "Keterangan Penyebab Derating", "Deklarasi Kemampuan (%)",
	}
	mitigationHeaders = []string{"SUTET", "N-1", "Mitigasi_1", "N-1-1", "Mitigasi_2", "N-1-2", "Mitigasi_3"}
	generationHeaders = []string{"Perusahaan", "Jenis Pembangkit", "Nama Unit", "Wilayah", "DMN", "TML"}
)

func txt(s string) entities.Value { return entities.TextValue(s) }
func num(f float64) entities.Value { return entities.NumberValue(f) }
func nan() entities.Value { return entities.MissingValue() }

func newDataset(t *testing.T, kind entities.DatasetKind, headers []string, rows ...[]entities.Value) *entities.Dataset {
	t.Helper()
	ds, err := entities.NewDataset(kind, "fixture", headers, rows)
	require.NoError(t, err)
	return ds
}

func assetRow(origin, dest string, length, nominal, capacity float64, region string, derating entities.Value, declared entities.Value) []entities.Value {
	return []entities.Value{txt(origin), txt(dest), num(length), num(nominal), num(capacity), txt(region), derating, declared}
}

// sampleAssets has three lines, two of them in regions containing "jakarta".
func sampleAssets(t *testing.T) *entities.Dataset {
	return newDataset(t, entities.Asset, assetHeaders,
		assetRow("Gitet A", "Gitet B", 120, 2000, 1800, "Jakarta", nan(), num(0.9)),
		assetRow("Gitet C", "Gitet D", 80.5, 2500, 2000, "Jawa Barat", txt("Andongan tinggi"), num(0.8)),
		assetRow("Gitet B", "Gitet E", 45, 3000, 3000, "Jakarta Selatan", nan(), nan()),
	)
}

func sampleMitigation(t *testing.T) *entities.Dataset {
	return newDataset(t, entities.Mitigation, mitigationHeaders,
		[]entities.Value{txt("Gitet A - Gitet B"), txt("Gitet A - Gitet C"), txt("Buka PMT bay C\n  Lapor UIP2B  \n\n"), nan(), nan(), txt("Gitet C - Gitet D"), txt("Manuver beban")},
		[]entities.Value{txt("Gitet X - Gitet Y"), nan(), nan(), nan(), nan(), nan(), nan()},
	)
}

func sampleGeneration(t *testing.T) *entities.Dataset {
	return newDataset(t, entities.Generation, generationHeaders,
		[]entities.Value{txt("Acme"), txt("PLTU"), txt("Acme Unit 1"), txt("North"), num(10), txt("12.5")},
		[]entities.Value{txt("Beta Power"), txt("PLTGU"), txt("Beta 1"), txt("North"), txt("n/a"), num(7)},
		[]entities.Value{txt("Acme"), txt("PLTA"), txt("Acme Unit 2"), txt("South"), num(20), nan()},
		[]entities.Value{txt("Gamma"), txt("PLTU"), txt("Gamma Unit 1"), txt("South"), num(5.555), num(1.005)},
	)
}

// mockExtractor implements ports.AnswerExtractor for testing
type mockExtractor struct {
	calls  int
	answer entities.Answer
	err    error
}

func (m *mockExtractor) Extract(ctx context.Context, question, context string) (entities.Answer, error) {
	m.calls++
	if m.err != nil {
		return entities.Answer{}, m.err
	}
	if m.answer.Text != "" {
		return m.answer, nil
	}
	return entities.Answer{Text: strings.SplitN(context, "\n", 2)[0], Score: 0.5}, nil
}

// mockHistory implements ports.HistoryStore for testing
type mockHistory struct {
	records []entities.QueryRecord
	err     error
}

func (m *mockHistory) Record(ctx context.Context, rec entities.QueryRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]entities.QueryRecord, error) {
	var out []entities.QueryRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *mockHistory) Close() error { return nil }

// containsPhrases implements ports.PhraseMatcher with plain substring tests
type containsPhrases []string

func (p containsPhrases) First(text string) (int, bool) {
	for i, phrase := range p {
		if strings.Contains(text, phrase) {
			return i, true
		}
	}
	return -1, false
}
