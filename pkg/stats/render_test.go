package stats

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/HEATLabs/replaylab/pkg/corpus"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	doc := corpus.NewCorpus()
	doc.TotalFiles = 2
	doc.ProcessedFiles = 2
	doc.Results[datedName("01", "dam", "conquest", 2025, 1, 1)] = resultRecord(t, "Win", "Ace#111", "Bob#222")
	doc.Results[datedName("02", "dam", "conquest", 2025, 1, 2)] = resultRecord(t, "Loose", "Ace#111", "Bob#222")

	return Compute(doc, Options{})
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Render(sampleReport(t), FormatJSON, &buf, true))

	var decoded Report

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Results.Wins)
	assert.Equal(t, 1, decoded.Results.Losses)
	assert.Equal(t, 2, decoded.UniquePlayers)
}

func TestRenderYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Render(sampleReport(t), FormatYAML, &buf, true))

	var decoded Report

	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Results.Wins)
	assert.Equal(t, 2, decoded.TotalFiles)
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, Render(sampleReport(t), FormatText, &buf, true))

	out := buf.String()

	assert.Contains(t, out, "=== MATCH RESULTS ===")
	assert.Contains(t, out, "Wins: 1")
	assert.Contains(t, out, "dam (conquest)")
	assert.Contains(t, out, "Ace#111")
	assert.Contains(t, out, "Longest win streak: 1")
}

func TestRenderUnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := Render(sampleReport(t), "xml", &buf, true)

	require.ErrorIs(t, err, ErrUnknownFormat)
}
