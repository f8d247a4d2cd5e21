package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xcro3dile/phtqa/internal/adapters/extractor"
	"github.com/0xcro3dile/phtqa/internal/adapters/filewatcher"
	"github.com/0xcro3dile/phtqa/internal/adapters/history"
	"github.com/0xcro3dile/phtqa/internal/adapters/loader"
	"github.com/0xcro3dile/phtqa/internal/adapters/markup"
	"github.com/0xcro3dile/phtqa/internal/adapters/phrase"
	"github.com/0xcro3dile/phtqa/internal/config"
	"github.com/0xcro3dile/phtqa/internal/domain/ports"
	"github.com/0xcro3dile/phtqa/internal/domain/usecases"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	loaders *loader.MultiLoader
	ingest  *usecases.IngestUseCase
	query   *usecases.QueryUseCase
	intent  *usecases.IntentUseCase
	markup  *markup.Converter
	history ports.HistoryStore
}

// newApp loads the datasets and wires the use cases. Close releases the history store.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	loaders := loader.NewMultiLoader()
	ingest := usecases.NewIngestUseCase(loaders, cfg.Sources(), logger)
	if err := ingest.Load(ctx); err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.History.Driver, cfg.History.Path, cfg.History.Limit)
	if err != nil {
		return nil, err
	}

	answers := usecases.NewAnswerUseCase(newExtractor(cfg.Extractor), logger)
	gen := usecases.NewGenerationFormatter(usecases.RegionScope(cfg.Generation.RegionScope))

	return &app{
		cfg:     cfg,
		logger:  logger,
		loaders: loaders,
		ingest:  ingest,
		query:   usecases.NewQueryUseCase(ingest, gen, answers, store, logger),
		intent:  usecases.NewIntentUseCase(ingest, phrase.NewMatcher(usecases.IntentPhrases())),
		markup:  markup.NewConverter(),
		history: store,
	}, nil
}

func newExtractor(c config.ExtractorConfig) ports.AnswerExtractor {
	switch c.Driver {
	case "huggingface":
		return extractor.NewHuggingFaceExtractor(c.BaseURL, c.Model, c.Token, c.Timeout)
	case "ollama":
		return extractor.NewOllamaExtractor(c.BaseURL, c.Model, c.Timeout)
	default:
		return extractor.NewLexicalExtractor()
	}
}

// watch reloads datasets on file changes until ctx is done.
func (a *app) watch(ctx context.Context) error {
	w, err := filewatcher.NewFSNotifyWatcher(a.loaders.SupportedExtensions(), a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	events, err := w.Watch(ctx, a.cfg.WatchDirs()...)
	if err != nil {
		w.Stop()
		return fmt.Errorf("watch dataset dirs: %w", err)
	}
	go func() {
		defer w.Stop()
		a.ingest.Watch(ctx, events)
	}()
	a.logger.Info("watching datasets", "dirs", a.cfg.WatchDirs())
	return nil
}

func (a *app) Close() error {
	return a.history.Close()
}

// setup loads config and wires the app for a command.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, newLogger(cfg))
}
