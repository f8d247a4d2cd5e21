package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
	"github.com/0xcro3dile/phtqa/internal/domain/ports"
)

// IngestUseCase loads the configured datasets into a catalog and keeps it current.
// Readers get immutable snapshots; a reload swaps in a new catalog.
type IngestUseCase struct {
	loader  ports.DatasetLoader
	sources []entities.Source
	logger  *slog.Logger

	mu      sync.RWMutex
	catalog *entities.Catalog
}

// NewIngestUseCase creates an IngestUseCase with an injected loader.
func NewIngestUseCase(loader ports.DatasetLoader, sources []entities.Source, logger *slog.Logger) *IngestUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestUseCase{
		loader:  loader,
		sources: sources,
		logger:  logger,
		catalog: &entities.Catalog{},
	}
}

// Load reads every source. On any failure the current catalog is kept.
func (uc *IngestUseCase) Load(ctx context.Context) error {
	next := &entities.Catalog{}
	for _, src := range uc.sources {
		ds, err := uc.loadOne(ctx, src)
		if err != nil {
			return err
		}
		next = next.With(src.Kind, ds)
	}

	uc.mu.Lock()
	uc.catalog = next
	uc.mu.Unlock()
	return nil
}

// Reload re-reads the sources stored at path. It reports whether any source matched.
func (uc *IngestUseCase) Reload(ctx context.Context, path string) (bool, error) {
	target := filepath.Clean(path)
	matched := false
	for _, src := range uc.sources {
		if filepath.Clean(src.Path) != target {
			continue
		}
		matched = true

		ds, err := uc.loadOne(ctx, src)
		if err != nil {
			return true, err
		}
		uc.mu.Lock()
		uc.catalog = uc.catalog.With(src.Kind, ds)
		uc.mu.Unlock()
		uc.logger.Info("dataset reloaded", "dataset", src.Kind.String(), "path", src.Path, "rows", len(ds.Rows))
	}
	return matched, nil
}

// Snapshot returns the current catalog.
func (uc *IngestUseCase) Snapshot() *entities.Catalog {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.catalog
}

// Watch reloads datasets on file events until ctx is done or the event stream closes.
func (uc *IngestUseCase) Watch(ctx context.Context, events <-chan ports.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Operation == ports.FileDeleted {
				uc.logger.Warn("dataset file removed, keeping loaded copy", "path", ev.Path)
				continue
			}
			if _, err := uc.Reload(ctx, ev.Path); err != nil {
				uc.logger.Error("dataset reload failed", "path", ev.Path, "error", err)
			}
		}
	}
}

func (uc *IngestUseCase) loadOne(ctx context.Context, src entities.Source) (*entities.Dataset, error) {
	table, err := uc.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("loading %s dataset from %s: %w", src.Kind, src.Path, err)
	}
	ds, err := entities.NewDataset(src.Kind, src.Path, table.Headers, table.Rows)
	if err != nil {
		return nil, err
	}
	if src.Kind == entities.Generation {
		NormalizeNumeric(ds)
	}
	uc.logger.Debug("dataset loaded", "dataset", src.Kind.String(), "path", src.Path, "rows", len(ds.Rows))
	return ds, nil
}
