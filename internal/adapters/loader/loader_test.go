package loader

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

var assetHeader = []string{
	"Dari Gitet/Gistet", "Ke Gitet/Gistet", "Panjang Penghantar", "Nominal Arus (A)",
	"Kemampuan Penghantar (A)", "Wilayah", "Keterangan Penyebab Derating", "Deklarasi Kemampuan (%)",
}

// checkAssetTable asserts the two-row fixture every format below encodes.
func checkAssetTable(t *testing.T, table *entities.Table) {
	t.Helper()

	if len(table.Headers) != len(assetHeader) {
		t.Fatalf("expected %d headers, got %v", len(assetHeader), table.Headers)
	}
	if table.Headers[0] != "Dari Gitet/Gistet" {
		t.Errorf("unexpected first header: %q", table.Headers[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	ds, err := entities.NewDataset(entities.Asset, "test", table.Headers, table.Rows)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	first := ds.Rows[0]
	if got := ds.Cell(first, entities.FieldOrigin).String(); got != "Gitet A" {
		t.Errorf("origin = %q", got)
	}
	if f, ok := ds.Cell(first, entities.FieldLength).Float(); !ok || f != 120.5 {
		t.Errorf("length = %v %v", f, ok)
	}
	if f, ok := ds.Cell(first, entities.FieldDeclared).Float(); !ok || f != 0.9 {
		t.Errorf("declared = %v %v", f, ok)
	}
	if !ds.Cell(first, entities.FieldDerating).IsMissing() {
		t.Error("blank derating cell should be missing")
	}
	if got := ds.Cell(ds.Rows[1], entities.FieldDerating).String(); got != "Andongan" {
		t.Errorf("derating = %q", got)
	}
}

func TestCSVLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pht.csv")
	content := "\ufeffDari Gitet/Gistet,Ke Gitet/Gistet,Panjang Penghantar,Nominal Arus (A),Kemampuan Penghantar (A),Wilayah,Keterangan Penyebab Derating,Deklarasi Kemampuan (%)\n" +
		"Gitet A,Gitet B,120.5,2000,1800,Jakarta,,0.9\n" +
		",,,,,,,\n" +
		"Gitet C,\"Gitet D, Baru\",80,2500,2000,Jawa Barat,Andongan,0.8\n"
	os.WriteFile(path, []byte(content), 0644)

	table, err := NewCSVLoader().Load(context.Background(), entities.Source{Kind: entities.Asset, Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	checkAssetTable(t, table)
	if table.Rows[1][1].String() != "Gitet D, Baru" {
		t.Errorf("quoted field not preserved: %q", table.Rows[1][1].String())
	}
}

func TestCSVLoader_Semicolon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pembangkit.csv")
	os.WriteFile(path, []byte("Perusahaan;Jenis Pembangkit;Nama Unit;Wilayah;DMN;TML\nAcme;PLTU;U1;North;10,5;7\n"), 0644)

	table, err := NewCSVLoader().Load(context.Background(), entities.Source{Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(table.Headers) != 6 {
		t.Fatalf("expected 6 headers, got %v", table.Headers)
	}
	if f, ok := table.Rows[0][4].Float(); !ok || f != 10.5 {
		t.Errorf("comma decimal not parsed: %v %v", f, ok)
	}
}

func TestXLSXLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pht.xlsx")

	f := excelize.NewFile()
	header := make([]interface{}, len(assetHeader))
	for i, h := range assetHeader {
		header[i] = h
	}
	f.SetSheetRow("Sheet1", "A1", &header)
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Gitet A", "Gitet B", 120.5, 2000, 1800, "Jakarta", nil, 0.9})
	f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Gitet C", "Gitet D", 80, 2500, 2000, "Jawa Barat", "Andongan", 0.8})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	f.Close()

	table, err := NewXLSXLoader().Load(context.Background(), entities.Source{Kind: entities.Asset, Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	checkAssetTable(t, table)

	_, err = NewXLSXLoader().Load(context.Background(), entities.Source{Path: path, Sheet: "Missing"})
	if err == nil {
		t.Error("expected error for unknown sheet")
	}
}

func TestSQLiteLoader_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datasets.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE pht (
			"Dari Gitet/Gistet" TEXT, "Ke Gitet/Gistet" TEXT, "Panjang Penghantar" REAL,
			"Nominal Arus (A)" INTEGER, "Kemampuan Penghantar (A)" INTEGER, "Wilayah" TEXT,
			"Keterangan Penyebab Derating" TEXT, "Deklarasi Kemampuan (%)" REAL
		);
		INSERT INTO pht VALUES ('Gitet A', 'Gitet B', 120.5, 2000, 1800, 'Jakarta', NULL, 0.9);
		INSERT INTO pht VALUES ('Gitet C', 'Gitet D', 80, 2500, 2000, 'Jawa Barat', 'Andongan', 0.8);
	`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	db.Close()

	table, err := NewSQLiteLoader().Load(context.Background(), entities.Source{Kind: entities.Asset, Path: path, Table: "pht"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	checkAssetTable(t, table)

	_, err = NewSQLiteLoader().Load(context.Background(), entities.Source{Path: path, Table: "pht; DROP TABLE pht"})
	if err == nil {
		t.Error("expected invalid table name error")
	}
}

func TestMultiLoader_DispatchByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DATA.CSV")
	os.WriteFile(path, []byte("SUTET\nA - B\n"), 0644)

	m := NewMultiLoader()
	table, err := m.Load(context.Background(), entities.Source{Kind: entities.Mitigation, Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(table.Rows))
	}

	_, err = m.Load(context.Background(), entities.Source{Path: filepath.Join(dir, "notes.pdf")})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestMultiLoader_SupportedExtensions(t *testing.T) {
	exts := NewMultiLoader().SupportedExtensions()
	want := []string{".csv", ".db", ".sqlite", ".sqlite3", ".xlsm", ".xlsx"}
	if len(exts) != len(want) {
		t.Fatalf("expected %v, got %v", want, exts)
	}
	for i := range want {
		if exts[i] != want[i] {
			t.Errorf("ext %d = %q, want %q", i, exts[i], want[i])
		}
	}
}

func TestBuildTable_Empty(t *testing.T) {
	if _, err := buildTable(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
}

// checkTextKept asserts that numeric-looking text survives loading unchanged.
func checkTextKept(t *testing.T, table *entities.Table) {
	t.Helper()
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(table.Rows))
	}
	want := []string{"08", "1,2", "2.000"}
	for i, w := range want {
		cell := table.Rows[0][i]
		if cell.Kind != entities.Text || cell.String() != w {
			t.Errorf("cell %d = kind %d %q, want text %q", i, cell.Kind, cell.String(), w)
		}
	}
}

func TestCSVLoader_KeepsNumericLookingText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sirkit.csv")
	os.WriteFile(path, []byte("Kode;Sirkit;Nominal\n08;1,2;2.000\n"), 0644)

	table, err := NewCSVLoader().Load(context.Background(), entities.Source{Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	checkTextKept(t, table)
}

func TestXLSXLoader_TypedCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sirkit.xlsx")
	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Kode", "Sirkit", "Nominal", "Panjang"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{"08", "1,2", "2.000", 120.5})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	f.Close()

	table, err := NewXLSXLoader().Load(context.Background(), entities.Source{Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	checkTextKept(t, table)
	if cell := table.Rows[0][3]; cell.Kind != entities.Number || cell.Num != 120.5 {
		t.Errorf("typed number cell = kind %d %v", cell.Kind, cell.Num)
	}
}

func TestSQLiteLoader_TextColumnsStayText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sirkit.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE asset ("Kode" TEXT, "Sirkit" TEXT, "Nominal" TEXT, "Panjang" REAL);
		INSERT INTO asset VALUES ('08', '1,2', '2.000', 120.5);
	`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	db.Close()

	table, err := NewSQLiteLoader().Load(context.Background(), entities.Source{Kind: entities.Asset, Path: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	checkTextKept(t, table)
	if cell := table.Rows[0][3]; cell.Kind != entities.Number || cell.Num != 120.5 {
		t.Errorf("REAL column = kind %d %v", cell.Kind, cell.Num)
	}
}
