// Package config loads the phtqa YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// TokenEnv overrides extractor.token when set.
const TokenEnv = "PHTQA_HF_TOKEN"

// Config holds the full phtqa configuration.
type Config struct {
	Listen     string           `yaml:"listen"`
	LogLevel   string           `yaml:"log_level"`
	Datasets   DatasetsConfig   `yaml:"datasets"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	History    HistoryConfig    `yaml:"history"`
	Generation GenerationConfig `yaml:"generation"`
	Watch      WatchConfig      `yaml:"watch"`
}

// DatasetsConfig locates the three source tables.
type DatasetsConfig struct {
	Asset      DatasetConfig `yaml:"asset"`
	Mitigation DatasetConfig `yaml:"mitigation"`
	Generation DatasetConfig `yaml:"generation"`
}

// DatasetConfig locates one table. Sheet applies to workbooks, Table to SQLite files.
type DatasetConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
	Table string `yaml:"table"`
}

// ExtractorConfig selects the answer extractor. The default is the hosted
// distilbert-base-cased-distilled-squad model; an empty model or base_url takes the
// adapter default. Set the token here or in PHTQA_HF_TOKEN. The lexical driver needs
// no model and returns the best matching context line instead of a span.
type ExtractorConfig struct {
	Driver  string        `yaml:"driver"` // huggingface | ollama | lexical
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig selects the query history store. The default sqlite store keeps
// history across CLI invocations; memory only lasts for one process.
type HistoryConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite | bbolt
	Path   string `yaml:"path"`
	Limit  int    `yaml:"limit"`
}

// GenerationConfig tunes the Generation rollup.
type GenerationConfig struct {
	RegionScope string `yaml:"region_scope"` // match | dataset
}

// WatchConfig enables reloading datasets when their files change.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		LogLevel: "info",
		Datasets: DatasetsConfig{
			Asset:      DatasetConfig{Path: "data/pht.xlsx"},
			Mitigation: DatasetConfig{Path: "data/mitigasi.xlsx"},
			Generation: DatasetConfig{Path: "data/pembangkit.xlsx"},
		},
		Extractor: ExtractorConfig{
			Driver:  "huggingface",
			Timeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Driver: "sqlite",
			Path:   "data/history.db",
			Limit:  500,
		},
		Generation: GenerationConfig{RegionScope: "match"},
		Watch:      WatchConfig{Enabled: false, Debounce: 250 * time.Millisecond},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
// Relative dataset and history paths resolve against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if tok := os.Getenv(TokenEnv); tok != "" {
		c.Extractor.Token = tok
	}
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Datasets.Asset.Path, &c.Datasets.Mitigation.Path, &c.Datasets.Generation.Path, &c.History.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Datasets.Asset.Path == "" && c.Datasets.Mitigation.Path == "" && c.Datasets.Generation.Path == "" {
		return fmt.Errorf("at least one dataset path is required")
	}
	switch c.Extractor.Driver {
	case "huggingface", "ollama", "lexical":
	default:
		return fmt.Errorf("extractor: unsupported driver %q (use huggingface, ollama or lexical)", c.Extractor.Driver)
	}
	if c.Extractor.Timeout <= 0 {
		return fmt.Errorf("extractor: timeout must be > 0")
	}
	switch c.History.Driver {
	case "memory":
	case "sqlite", "bbolt":
		if c.History.Path == "" {
			return fmt.Errorf("history: path is required for driver %s", c.History.Driver)
		}
	default:
		return fmt.Errorf("history: unsupported driver %q (use memory, sqlite or bbolt)", c.History.Driver)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history: limit must be >= 0")
	}
	switch c.Generation.RegionScope {
	case "match", "dataset":
	default:
		return fmt.Errorf("generation: unsupported region_scope %q (use match or dataset)", c.Generation.RegionScope)
	}
	return nil
}

// Level parses log_level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Sources lists the configured datasets in Asset, Mitigation, Generation order.
// Datasets without a path are skipped.
func (c *Config) Sources() []entities.Source {
	all := []struct {
		kind entities.DatasetKind
		cfg  DatasetConfig
	}{
		{entities.Asset, c.Datasets.Asset},
		{entities.Mitigation, c.Datasets.Mitigation},
		{entities.Generation, c.Datasets.Generation},
	}
	var out []entities.Source
	for _, d := range all {
		if strings.TrimSpace(d.cfg.Path) == "" {
			continue
		}
		out = append(out, entities.Source{Kind: d.kind, Path: d.cfg.Path, Sheet: d.cfg.Sheet, Table: d.cfg.Table})
	}
	return out
}

// WatchDirs returns the distinct directories holding the configured datasets.
func (c *Config) WatchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for _, src := range c.Sources() {
		dir := filepath.Dir(src.Path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
