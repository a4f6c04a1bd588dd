package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SegmenterConfig selects the sentence segmenter and the context window size.
type SegmenterConfig struct {
	Type          string `yaml:"type"`
	ContextRadius int    `yaml:"context_radius"`
}

// TopicsConfig selects and configures the topic model.
type TopicsConfig struct {
	Strategy    string `yaml:"strategy"`
	Clusters    int    `yaml:"clusters"`
	TopTerms    int    `yaml:"top_terms"`
	MaxFeatures int    `yaml:"max_features"`
	Seed        uint64 `yaml:"seed"`
	// RefitEvery refits after this many documents; negative disables automatic refits.
	RefitEvery int `yaml:"refit_every"`
}

// RelevanceConfig overrides the relevance keyword set.
type RelevanceConfig struct {
	Terms []string `yaml:"terms,omitempty"`
}

// QueryConfig bounds the number of responses per query.
type QueryConfig struct {
	DefaultMaxResponses int `yaml:"default_max_responses"`
	MaxResponsesLimit   int `yaml:"max_responses_limit"`
}

// StoreConfig configures the upload directory and watched paths.
type StoreConfig struct {
	UploadDir string   `yaml:"upload_dir"`
	Watch     []string `yaml:"watch,omitempty"`
	// DebounceMillis delays ingestion of watched files until writes settle.
	DebounceMillis int `yaml:"debounce_millis"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	CORSOrigins    []string `yaml:"cors_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Segmenter  SegmenterConfig  `yaml:"segmenter"`
	Topics     TopicsConfig     `yaml:"topics"`
	Relevance  RelevanceConfig  `yaml:"relevance"`
	Query      QueryConfig      `yaml:"query"`
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Log        LogConfig        `yaml:"log"`
}

// Environment variables that override file values.
const (
	EnvAddr       = "POLICYRAG_ADDR"
	EnvUploadDir  = "POLICYRAG_UPLOAD_DIR"
	EnvLogLevel   = "POLICYRAG_LOG_LEVEL"
	EnvRefitEvery = "POLICYRAG_REFIT_EVERY"
)

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/policyrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/policyrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns a fresh copy of the built-in configuration.
func Default() *AppConfig { return defaultConfig() }

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "policyrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Segmenter:  SegmenterConfig{Type: "sentence", ContextRadius: 2},
		Topics:     TopicsConfig{Strategy: "dynamic", Clusters: 10, TopTerms: 5, MaxFeatures: 1000, Seed: 42, RefitEvery: 1},
		Query:      QueryConfig{DefaultMaxResponses: 3, MaxResponsesLimit: 100},
		Store:      StoreConfig{UploadDir: "uploads", DebounceMillis: 500},
		Server:     ServerConfig{Addr: ":8000", CORSOrigins: []string{"*"}, MaxUploadBytes: 10 << 20},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 5},
		Log:        LogConfig{Level: "info", Format: "console"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Segmenter.Type == "" {
		cfg.Segmenter.Type = def.Segmenter.Type
	}
	if cfg.Segmenter.ContextRadius == 0 {
		cfg.Segmenter.ContextRadius = def.Segmenter.ContextRadius
	}
	if cfg.Topics.Strategy == "" {
		cfg.Topics.Strategy = def.Topics.Strategy
	}
	if cfg.Topics.Clusters == 0 {
		cfg.Topics.Clusters = def.Topics.Clusters
	}
	if cfg.Topics.TopTerms == 0 {
		cfg.Topics.TopTerms = def.Topics.TopTerms
	}
	if cfg.Topics.MaxFeatures == 0 {
		cfg.Topics.MaxFeatures = def.Topics.MaxFeatures
	}
	if cfg.Topics.Seed == 0 {
		cfg.Topics.Seed = def.Topics.Seed
	}
	if cfg.Topics.RefitEvery == 0 {
		cfg.Topics.RefitEvery = def.Topics.RefitEvery
	}
	if cfg.Query.DefaultMaxResponses == 0 {
		cfg.Query.DefaultMaxResponses = def.Query.DefaultMaxResponses
	}
	if cfg.Query.MaxResponsesLimit == 0 {
		cfg.Query.MaxResponsesLimit = def.Query.MaxResponsesLimit
	}
	if cfg.Store.UploadDir == "" {
		cfg.Store.UploadDir = def.Store.UploadDir
	}
	if cfg.Store.DebounceMillis == 0 {
		cfg.Store.DebounceMillis = def.Store.DebounceMillis
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.CORSOrigins == nil {
		cfg.Server.CORSOrigins = def.Server.CORSOrigins
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = def.Server.MaxUploadBytes
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = def.Summarizer.Type
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = def.Summarizer.MaxSentences
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

func applyEnv(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUploadDir)); v != "" {
		cfg.Store.UploadDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRefitEvery)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n != 0 {
			cfg.Topics.RefitEvery = n
		}
	}
}
