package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))

	// An explicit path that does not exist is an error; defaults only apply
	// when no path was given.
	require.Error(t, err)

	t.Chdir(t.TempDir())

	cfg, err = Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultCorpusPath, cfg.Corpus.Path)
	assert.Equal(t, 1, cfg.Corpus.BatchSize)
	assert.Equal(t, DefaultExtension, cfg.Scan.Extension)
	assert.Equal(t, 10, cfg.Report.TopActivePlayers)
	assert.Equal(t, 5, cfg.Report.TopWinRatePlayers)
	assert.Equal(t, 2, cfg.Report.MinQualifyingMatches)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "replaylab.yaml")

	content := `
corpus:
  path: /data/corpus.json
  batch_size: 25
scan:
  workers: 4
report:
  top_active_players: 3
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/corpus.json", cfg.Corpus.Path)
	assert.Equal(t, 25, cfg.Corpus.BatchSize)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, 3, cfg.Report.TopActivePlayers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Unset keys keep their defaults.
	assert.Equal(t, 5, cfg.Report.TopWinRatePlayers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("REPLAYLAB_CORPUS_PATH", "/env/corpus.json")
	t.Setenv("REPLAYLAB_SCAN_WORKERS", "7")

	t.Chdir(t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/env/corpus.json", cfg.Corpus.Path)
	assert.Equal(t, 7, cfg.Scan.Workers)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "empty corpus path",
			content: "corpus:\n  path: \"\"\n",
			wantErr: ErrEmptyCorpusPath,
		},
		{
			name:    "zero batch size",
			content: "corpus:\n  batch_size: 0\n",
			wantErr: ErrInvalidBatchSize,
		},
		{
			name:    "negative workers",
			content: "scan:\n  workers: -1\n",
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "zero top n",
			content: "report:\n  top_partnerships: 0\n",
			wantErr: ErrInvalidTopN,
		},
		{
			name:    "zero qualifying floor",
			content: "report:\n  min_qualifying_matches: 0\n",
			wantErr: ErrInvalidQualifying,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "replaylab.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
