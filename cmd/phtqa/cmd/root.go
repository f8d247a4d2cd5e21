package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/phtqa/internal/config"
)

const defaultConfigPath = "phtqa.yaml"

var (
	configPath string
	plainFlag  bool
	mdFlag     bool
)

var rootCmd = &cobra.Command{
	Use:           "phtqa",
	Short:         "phtqa: keyword QA over transmission datasets",
	Long:          "Look up transmission lines, N-1 mitigations and generating units by keyword, and ask questions about them.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./"+defaultConfigPath+" when present)")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "strip highlight markup from output")
	rootCmd.PersistentFlags().BoolVar(&mdFlag, "markdown", false, "render the generation tables as markdown")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(intentCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig reads --config, falling back to ./phtqa.yaml and then to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.LoadConfig(defaultConfigPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", defaultConfigPath, err)
	}
	cfg := config.DefaultConfig()
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *slog.Logger {
	lvl, err := cfg.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
