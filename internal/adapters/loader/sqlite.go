package loader

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteLoader loads a whole table from a SQLite database file.
type SQLiteLoader struct{}

// NewSQLiteLoader creates a new SQLite table loader.
func NewSQLiteLoader() *SQLiteLoader {
	return &SQLiteLoader{}
}

// Load reads src.Table, defaulting to the dataset kind name ("asset", ...).
// The database is opened read-only.
func (l *SQLiteLoader) Load(ctx context.Context, src entities.Source) (*entities.Table, error) {
	table := src.Table
	if table == "" {
		table = src.Kind.String()
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite3", "file:"+src.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+table+`"`)
	if err != nil {
		return nil, fmt.Errorf("querying %s in %s: %w", table, src.Path, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	out := &entities.Table{Headers: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make([]entities.Value, len(cols))
		for i, v := range raw {
			row[i] = sqlValue(v)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *SQLiteLoader) SupportedExtensions() []string {
	return []string{".db", ".sqlite", ".sqlite3"}
}

// sqlValue keeps INTEGER and REAL columns numeric. Text is never reinterpreted.
func sqlValue(v any) entities.Value {
	switch x := v.(type) {
	case nil:
		return entities.MissingValue()
	case int64:
		return entities.NumberValue(float64(x))
	case float64:
		return entities.NumberValue(x)
	case []byte:
		return entities.ParseCell(string(x))
	case string:
		return entities.ParseCell(x)
	default:
		return entities.ParseCell(fmt.Sprint(x))
	}
}
