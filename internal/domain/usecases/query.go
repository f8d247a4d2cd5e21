// Package usecases - query.go handles keyword lookups and questions over the catalog.
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/ports"
)

// ErrEmptyKeyword is returned when a lookup is submitted without a keyword.
var ErrEmptyKeyword = errors.New("keyword is required")

// ErrUnknownDataset is returned when a dataset filter names no known dataset.
var ErrUnknownDataset = errors.New("unknown dataset")

// ParseDatasetFilter resolves a dataset filter. An empty name selects all three.
func ParseDatasetFilter(name string) ([]entities.DatasetKind, error) {
	if strings.TrimSpace(name) == "" {
		return []entities.DatasetKind{entities.Asset, entities.Mitigation, entities.Generation}, nil
	}
	kind, ok := entities.ParseDatasetKind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
	}
	return []entities.DatasetKind{kind}, nil
}

// History record kinds.
const (
	RecordLookup = "lookup"
	RecordAsk    = "ask"
	RecordIntent = "intent"
)

// LookupResult holds the rendering of one keyword against every dataset.
type LookupResult struct {
	Keyword    string
	Asset      entities.Rendered
	Mitigation entities.Rendered
	Generation entities.GenerationView
}

// Matches counts the datasets that produced a result.
func (r LookupResult) Matches() int {
	n := 0
	for _, found := range []bool{r.Asset.Found, r.Mitigation.Found, r.Generation.Found} {
		if found {
			n++
		}
	}
	return n
}

// AskResult is an extracted answer together with the context it came from.
type AskResult struct {
	Answer  string
	Context string
}

// QueryUseCase answers keyword lookups and questions.
type QueryUseCase struct {
	catalog    ports.CatalogSource
	generation *GenerationFormatter
	answers    *AnswerUseCase
	history    ports.HistoryStore
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewQueryUseCase creates a QueryUseCase. history may be nil.
func NewQueryUseCase(
	catalog ports.CatalogSource,
	generation *GenerationFormatter,
	answers *AnswerUseCase,
	history ports.HistoryStore,
	logger *slog.Logger,
) *QueryUseCase {
	if generation == nil {
		generation = NewGenerationFormatter(RegionScopeMatch)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryUseCase{
		catalog:    catalog,
		generation: generation,
		answers:    answers,
		history:    history,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Lookup renders keyword against the asset, mitigation and generation datasets.
func (uc *QueryUseCase) Lookup(ctx context.Context, keyword string) (*LookupResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	cat := uc.catalog.Snapshot()
	res := &LookupResult{
		Keyword:    keyword,
		Asset:      FormatAsset(Match(cat.Dataset(entities.Asset), keyword), keyword),
		Mitigation: FormatMitigation(Match(cat.Dataset(entities.Mitigation), keyword), keyword),
		Generation: uc.generation.Format(cat.Dataset(entities.Generation), keyword),
	}

	uc.record(ctx, entities.QueryRecord{Kind: RecordLookup, Keyword: keyword, Matches: res.Matches()})
	return res, nil
}

// Ask builds the asset and mitigation contexts for keyword and extracts an answer to question.
func (uc *QueryUseCase) Ask(ctx context.Context, keyword, question string) (*AskResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	cat := uc.catalog.Snapshot()
	var parts []string
	matches := 0
	for _, kind := range []entities.DatasetKind{entities.Asset, entities.Mitigation} {
		m := Match(cat.Dataset(kind), keyword)
		if m.Empty() {
			continue
		}
		matches++
		parts = append(parts, ContextTable(m))
	}
	assembled := strings.Join(parts, "\n\n")

	answer, err := uc.answers.Answer(ctx, question, assembled)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, entities.QueryRecord{Kind: RecordAsk, Keyword: keyword, Question: question, Answer: answer, Matches: matches})
	return &AskResult{Answer: answer, Context: assembled}, nil
}

// RecordIntent logs an intent question in the history.
func (uc *QueryUseCase) RecordIntent(ctx context.Context, question string, reply IntentReply) {
	uc.record(ctx, entities.QueryRecord{Kind: RecordIntent, Question: question, Answer: reply.Intent.String()})
}

// History returns the most recent records, newest first.
func (uc *QueryUseCase) History(ctx context.Context, limit int) ([]entities.QueryRecord, error) {
	if uc.history == nil {
		return nil, nil
	}
	return uc.history.Recent(ctx, limit)
}

// record stores rec when a history store is configured. Failures are logged, not returned.
func (uc *QueryUseCase) record(ctx context.Context, rec entities.QueryRecord) {
	if uc.history == nil {
		return
	}
	rec.ID = uc.newID()
	rec.CreatedAt = uc.now().UTC()
	if err := uc.history.Record(ctx, rec); err != nil {
		uc.logger.Warn("recording query history", "kind", rec.Kind, "error", err)
	}
}
