// Package entities contains core business entities.
// These are pure domain objects: cells, rows, datasets and the rendered answers built from them.
package entities

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NotFoundMessage is the sentinel response returned when a keyword matches nothing
// or when an answer is requested without any context.
const NotFoundMessage = "Data tidak ditemukan untuk kata kunci yang diminta."

// ValueKind tags the content of a cell.
type ValueKind int

const (
	Missing ValueKind = iota
	Text
	Number
)

// Value is a single cell. Missing is distinct from empty text and from zero.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// MissingValue returns the missing sentinel.
func MissingValue() Value { return Value{Kind: Missing} }

// TextValue wraps a string cell.
func TextValue(s string) Value { return Value{Kind: Text, Str: s} }

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value { return Value{Kind: Number, Num: f} }

// ParseCell converts a raw loader string into a Value. Blank strings are missing;
// anything else stays text exactly as written, so "08" and "1,2" keep their form.
// Only sources with typed cells produce numbers.
func ParseCell(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return MissingValue()
	}
	return TextValue(raw)
}

// ParseNumber parses a decimal number, tolerating a comma decimal separator.
// It is applied on demand to text cells, never at load time.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool { return v.Kind == Missing }

// String renders the cell. Missing cells render as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Str
	case Number:
		return FormatNumber(v.Num)
	default:
		return ""
	}
}

// Float returns the numeric content of the cell. Text cells are parsed on demand
// with ParseNumber; the cell itself is not changed.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case Number:
		return v.Num, true
	case Text:
		return ParseNumber(v.Str)
	default:
		return 0, false
	}
}

// FormatNumber renders a number in its shortest form: 120, 0.9, 1250.5.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Row is one record of a dataset. Index is the position in the source dataset.
type Row struct {
	Index int
	Cells []Value
}

// MatchResult is the ordered subset of a dataset's rows that matched a keyword.
type MatchResult struct {
	Dataset *Dataset
	Rows    []Row
}

// Empty reports whether nothing matched.
func (m MatchResult) Empty() bool { return len(m.Rows) == 0 }

// Rendered is a formatter's output: Context feeds answer extraction, Response is shown to the user.
type Rendered struct {
	Context  string
	Response string
	Found    bool
}

// NotFound returns the sentinel pair for an empty match.
func NotFound() Rendered {
	return Rendered{Response: NotFoundMessage}
}

// RegionTotal aggregates the two Generation capacity fields over a group of rows.
type RegionTotal struct {
	Region string
	Rows   int
	DMN    decimal.Decimal
	TML    decimal.Decimal
}

// GenerationView is the Generation formatter's output.
type GenerationView struct {
	Title   string
	HTML    string
	Mode    string
	Found   bool
	Regions []RegionTotal
	Total   RegionTotal
}

// Answer is the span returned by an answer extractor.
// Start and End are byte offsets into the context, or -1 when unknown.
type Answer struct {
	Text  string
	Score float64
	Start int
	End   int
}

// QueryRecord is one entry of the query history.
type QueryRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Keyword   string    `json:"keyword,omitempty"`
	Question  string    `json:"question,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	Matches   int       `json:"matches"`
	CreatedAt time.Time `json:"created_at"`
}
