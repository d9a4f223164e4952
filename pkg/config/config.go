// Package config provides configuration loading and validation for replaylab.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers    = errors.New("scan workers must not be negative")
	ErrInvalidBatchSize  = errors.New("scan batch size must be positive")
	ErrEmptyCorpusPath   = errors.New("corpus path must not be empty")
	ErrInvalidTopN       = errors.New("report top-N values must be positive")
	ErrInvalidQualifying = errors.New("min qualifying matches must be positive")
)

// Config holds all configuration for the replaylab CLI.
type Config struct {
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Report    ReportConfig    `mapstructure:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// CorpusConfig locates and tunes the aggregated corpus document.
type CorpusConfig struct {
	Path      string `mapstructure:"path"`
	Backup    bool   `mapstructure:"backup"`
	BatchSize int    `mapstructure:"batch_size"`
}

// ScanConfig tunes the extraction pipeline.
type ScanConfig struct {
	// Workers bounds the extraction pool; 0 means one per CPU.
	Workers int `mapstructure:"workers"`

	// Extension filters input files. Matching is case-insensitive; empty
	// accepts every file, since any byte sequence is legal input.
	Extension string `mapstructure:"extension"`
}

// ReportConfig tunes statistics report depth.
type ReportConfig struct {
	TopActivePlayers     int `mapstructure:"top_active_players"`
	TopWinRatePlayers    int `mapstructure:"top_win_rate_players"`
	TopPartnerships      int `mapstructure:"top_partnerships"`
	MinQualifyingMatches int `mapstructure:"min_qualifying_matches"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings. An empty endpoint
// keeps every provider a no-op, so the tool performs no network I/O.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// Load reads configuration from a file and REPLAYLAB_* environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("replaylab")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.replaylab")
	}

	viperCfg.SetEnvPrefix("REPLAYLAB")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&cfg)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Corpus.Path == "" {
		return ErrEmptyCorpusPath
	}

	if cfg.Corpus.BatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, cfg.Corpus.BatchSize)
	}

	if cfg.Scan.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Scan.Workers)
	}

	if cfg.Report.TopActivePlayers <= 0 || cfg.Report.TopWinRatePlayers <= 0 || cfg.Report.TopPartnerships <= 0 {
		return ErrInvalidTopN
	}

	if cfg.Report.MinQualifyingMatches <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQualifying, cfg.Report.MinQualifyingMatches)
	}

	return nil
}
