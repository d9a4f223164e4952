package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultCorpusPath = "replays_output.json"
	DefaultExtension  = ".replay"
	defaultBatchSize  = 1

	defaultTopActive     = 10
	defaultTopWinRate    = 5
	defaultTopPairs      = 10
	defaultMinQualifying = 2
)

// setDefaults registers default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("corpus.path", DefaultCorpusPath)
	viperCfg.SetDefault("corpus.backup", true)
	viperCfg.SetDefault("corpus.batch_size", defaultBatchSize)

	viperCfg.SetDefault("scan.workers", 0)
	viperCfg.SetDefault("scan.extension", DefaultExtension)

	viperCfg.SetDefault("report.top_active_players", defaultTopActive)
	viperCfg.SetDefault("report.top_win_rate_players", defaultTopWinRate)
	viperCfg.SetDefault("report.top_partnerships", defaultTopPairs)
	viperCfg.SetDefault("report.min_qualifying_matches", defaultMinQualifying)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
}
