// Package ports defines interfaces for external dependencies.
// Usecases depend on these abstractions; adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// AnswerExtractor returns the best answer span of context for a question.
// Implementations wrap an extractive question-answering model.
type AnswerExtractor interface {
	// Extract returns the single top-scoring span. No thresholding is applied.
	Extract(ctx context.Context, question, context string) (entities.Answer, error)
}

// DatasetLoader reads a raw table from a dataset source.
type DatasetLoader interface {
	// Load reads the table described by src.
	Load(ctx context.Context, src entities.Source) (*entities.Table, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// CatalogSource hands out the current dataset catalog.
type CatalogSource interface {
	Snapshot() *entities.Catalog
}

// HistoryStore persists submitted keywords and questions.
type HistoryStore interface {
	// Record appends one entry.
	Record(ctx context.Context, rec entities.QueryRecord) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]entities.QueryRecord, error)

	// Close releases the underlying storage.
	Close() error
}

// PhraseMatcher finds fixed phrases inside free text.
type PhraseMatcher interface {
	// First returns the lowest index of the phrases occurring in text.
	First(text string) (int, bool)
}

// FileWatcher monitors dataset directories for changes.
type FileWatcher interface {
	// Watch starts monitoring the directories and emits events.
	Watch(ctx context.Context, dirs ...string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
