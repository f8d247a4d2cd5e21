package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// CSVLoader loads comma or semicolon separated files.
type CSVLoader struct{}

// NewCSVLoader creates a new CSV dataset loader.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads the whole file. The delimiter is taken from the header line.
func (l *CSVLoader) Load(ctx context.Context, src entities.Source) (*entities.Table, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src.Path, err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	table, err := buildTable(records, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Path, err)
	}
	return table, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *CSVLoader) SupportedExtensions() []string {
	return []string{".csv"}
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas.
func sniffDelimiter(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadBytes('\n')
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
