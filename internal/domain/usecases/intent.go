package usecases

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/ports"
)

// Intent is a canned question about the asset dataset.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentTotalLength
	IntentDerating
	IntentRegions
	IntentConductors
	IntentCount
	IntentHighestCurrent
	IntentDetail
)

func (i Intent) String() string {
	switch i {
	case IntentTotalLength:
		return "total_length"
	case IntentDerating:
		return "derating"
	case IntentRegions:
		return "regions"
	case IntentConductors:
		return "conductors"
	case IntentCount:
		return "count"
	case IntentHighestCurrent:
		return "highest_current"
	case IntentDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// intentPhrases lists trigger phrases in priority order; index i triggers intentOrder[i].
var (
	intentPhrases = []string{
		"total pht",
		"derating",
		"wilayah pht",
		"daftar penghantar pht",
		"jumlah penghantar",
		"arus terbesar",
		"detail penghantar",
	}
	intentOrder = []Intent{
		IntentTotalLength,
		IntentDerating,
		IntentRegions,
		IntentConductors,
		IntentCount,
		IntentHighestCurrent,
		IntentDetail,
	}
)

// IntentPhrases returns the trigger phrases, highest priority first.
func IntentPhrases() []string {
	out := make([]string, len(intentPhrases))
	copy(out, intentPhrases)
	return out
}

const (
	msgAskRegion     = "Masukkan wilayah UPT yang ingin dicari:"
	msgAskEndpoints  = "Masukkan nama Gitet asal dan Gitet tujuan."
	msgNoDerating    = "Tidak ada penghantar yang mengalami derating."
	msgNoCurrent     = "Tidak ada data arus penghantar."
	msgUnrecognised  = "Pertanyaan tidak dikenali. Harap coba dengan kata kunci yang berbeda."
	msgNoAssetLoaded = "Data PHT belum tersedia."
)

// IntentParams carries the follow-up inputs some intents need.
type IntentParams struct {
	Region      string
	Origin      string
	Destination string
}

// IntentReply is the router's answer. NeedsInput is set when Text is a prompt
// asking for a missing parameter.
type IntentReply struct {
	Intent     Intent
	Text       string
	NeedsInput bool
}

// IntentUseCase answers canned questions directly from the asset dataset.
type IntentUseCase struct {
	catalog ports.CatalogSource
	phrases ports.PhraseMatcher
}

// NewIntentUseCase creates an IntentUseCase. phrases must be built over IntentPhrases().
func NewIntentUseCase(catalog ports.CatalogSource, phrases ports.PhraseMatcher) *IntentUseCase {
	return &IntentUseCase{catalog: catalog, phrases: phrases}
}

// Detect returns the highest-priority intent mentioned in question.
func (uc *IntentUseCase) Detect(question string) Intent {
	idx, ok := uc.phrases.First(strings.ToLower(question))
	if !ok || idx < 0 || idx >= len(intentOrder) {
		return IntentUnknown
	}
	return intentOrder[idx]
}

// Handle routes question to its intent and answers it.
func (uc *IntentUseCase) Handle(question string, params IntentParams) IntentReply {
	intent := uc.Detect(question)
	if intent == IntentUnknown {
		return IntentReply{Intent: intent, Text: msgUnrecognised}
	}

	ds := uc.catalog.Snapshot().Dataset(entities.Asset)
	if ds == nil {
		return IntentReply{Intent: intent, Text: msgNoAssetLoaded}
	}

	switch intent {
	case IntentTotalLength:
		return uc.totalLength(ds, params)
	case IntentDerating:
		return uc.derating(ds)
	case IntentRegions:
		return IntentReply{Intent: intent, Text: "Wilayah yang terdaftar untuk PHT: " + strings.Join(uniqueRegions(ds), ", ")}
	case IntentConductors:
		return IntentReply{Intent: intent, Text: projectTable(ds, ds.Rows, entities.FieldOrigin, entities.FieldDestination, entities.FieldLength)}
	case IntentCount:
		return IntentReply{Intent: intent, Text: fmt.Sprintf("Jumlah penghantar PHT: %d", len(ds.Rows))}
	case IntentHighestCurrent:
		return uc.highestCurrent(ds)
	default:
		return uc.detail(ds, params)
	}
}

func (uc *IntentUseCase) totalLength(ds *entities.Dataset, params IntentParams) IntentReply {
	region := strings.TrimSpace(params.Region)
	if region == "" {
		return IntentReply{Intent: IntentTotalLength, Text: msgAskRegion, NeedsInput: true}
	}
	sum := decimal.Zero
	for _, row := range filterRows(ds, ds.Rows, entities.FieldRegion, region) {
		if f, ok := ds.Cell(row, entities.FieldLength).Float(); ok {
			sum = sum.Add(decimal.NewFromFloat(f))
		}
	}
	return IntentReply{
		Intent: IntentTotalLength,
		Text:   fmt.Sprintf("Total PHT di wilayah %s adalah %s km.", capitalize(region), sum.String()),
	}
}

func (uc *IntentUseCase) derating(ds *entities.Dataset) IntentReply {
	var rows []entities.Row
	for _, row := range ds.Rows {
		if !ds.Cell(row, entities.FieldDerating).IsMissing() {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return IntentReply{Intent: IntentDerating, Text: msgNoDerating}
	}
	return IntentReply{
		Intent: IntentDerating,
		Text:   projectTable(ds, rows, entities.FieldOrigin, entities.FieldDestination, entities.FieldDerating),
	}
}

func (uc *IntentUseCase) highestCurrent(ds *entities.Dataset) IntentReply {
	var (
		best  entities.Row
		top   float64
		found bool
	)
	for _, row := range ds.Rows {
		f, ok := ds.Cell(row, entities.FieldNominal).Float()
		if ok && (!found || f > top) {
			best, top, found = row, f, true
		}
	}
	if !found {
		return IntentReply{Intent: IntentHighestCurrent, Text: msgNoCurrent}
	}
	return IntentReply{
		Intent: IntentHighestCurrent,
		Text: fmt.Sprintf("Penghantar dengan arus terbesar adalah dari %s ke %s dengan arus %s A.",
			textOr(ds, best, entities.FieldOrigin, unavailable),
			textOr(ds, best, entities.FieldDestination, unavailable),
			textOr(ds, best, entities.FieldNominal, entities.FormatNumber(top))),
	}
}

func (uc *IntentUseCase) detail(ds *entities.Dataset, params IntentParams) IntentReply {
	origin, destination := strings.TrimSpace(params.Origin), strings.TrimSpace(params.Destination)
	if origin == "" || destination == "" {
		return IntentReply{Intent: IntentDetail, Text: msgAskEndpoints, NeedsInput: true}
	}
	rows := filterRows(ds, filterRows(ds, ds.Rows, entities.FieldOrigin, origin), entities.FieldDestination, destination)
	if len(rows) == 0 {
		return IntentReply{
			Intent: IntentDetail,
			Text: fmt.Sprintf("Tidak ada detail untuk penghantar dari Gitet %s ke Gitet %s.",
				capitalize(origin), capitalize(destination)),
		}
	}
	return IntentReply{Intent: IntentDetail, Text: TextTable(ds.Headers, cellStrings(rows, nil))}
}

// uniqueRegions lists region names in order of first appearance.
func uniqueRegions(ds *entities.Dataset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range ds.Rows {
		v := ds.Cell(row, entities.FieldRegion)
		if v.IsMissing() {
			continue
		}
		name := strings.TrimSpace(v.String())
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
