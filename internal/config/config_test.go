package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phtqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Sources(), 3)
	assert.Equal(t, "huggingface", cfg.Extractor.Driver)
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "data/history.db", cfg.History.Path)
}

func TestLoadConfig_MergesDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
log_level: debug
datasets:
  asset:
    path: pht.csv
  mitigation:
    path: /srv/data/mitigasi.xlsx
    sheet: Sheet2
  generation:
    path: ""
extractor:
  driver: huggingface
  timeout: 5s
history:
  driver: bbolt
  path: history.bolt
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 5*time.Second, cfg.Extractor.Timeout)
	assert.Equal(t, filepath.Join(dir, "history.bolt"), cfg.History.Path)
	assert.Equal(t, 500, cfg.History.Limit)
	assert.Equal(t, "match", cfg.Generation.RegionScope)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	srcs := cfg.Sources()
	require.Len(t, srcs, 2)
	assert.Equal(t, entities.Source{Kind: entities.Asset, Path: filepath.Join(dir, "pht.csv")}, srcs[0])
	assert.Equal(t, entities.Source{Kind: entities.Mitigation, Path: "/srv/data/mitigasi.xlsx", Sheet: "Sheet2"}, srcs[1])
	assert.Equal(t, []string{dir, "/srv/data"}, cfg.WatchDirs())
}

func TestLoadConfig_TokenFromEnv(t *testing.T) {
	t.Setenv(TokenEnv, "hf_secret")
	cfg, err := LoadConfig(writeConfig(t, "extractor:\n  driver: huggingface\n  token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "hf_secret", cfg.Extractor.Token)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "listen: [\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }, "listen is required"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"no datasets", func(c *Config) { c.Datasets = DatasetsConfig{} }, "dataset path"},
		{"bad extractor", func(c *Config) { c.Extractor.Driver = "gpt" }, "unsupported driver"},
		{"zero timeout", func(c *Config) { c.Extractor.Timeout = 0 }, "timeout"},
		{"bad history", func(c *Config) { c.History.Driver = "redis" }, "history"},
		{"sqlite without path", func(c *Config) { c.History.Driver = "sqlite"; c.History.Path = "" }, "path is required"},
		{"negative limit", func(c *Config) { c.History.Limit = -1 }, "limit"},
		{"bad scope", func(c *Config) { c.Generation.RegionScope = "all" }, "region_scope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
