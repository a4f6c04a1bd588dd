package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"policyrag/internal/config"
	"policyrag/internal/logger"
)

var (
	cfgPath   string
	logLevel  string
	logFormat string

	// cfg is loaded before any subcommand runs.
	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "policyrag",
	Short: "Index policy statements and answer questions about them",
	Long: `policyrag ingests text and source files, keeps the sentences that read
like policy statements, clusters the corpus into topics and ranks stored
statements against free-text questions.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default ./config.yaml or ~/.config/policyrag/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (console or json)")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "policyrag",
		Writer:  cmd.ErrOrStderr(),
	})
	return nil
}
