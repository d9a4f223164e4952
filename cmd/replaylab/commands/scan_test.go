package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/HEATLabs/replaylab/pkg/corpus"
	"github.com/HEATLabs/replaylab/pkg/observability"
)

func newTestApp(tracer trace.Tracer) *App {
	return &App{
		silent: true,
		Providers: observability.Providers{
			Tracer: tracer,
			Meter:  metricnoop.NewMeterProvider().Meter("replaylab-test"),
		},
	}
}

func TestDiscoverReplaysFiltersAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"b.replay", "a.REPLAY", "notes.txt", "c.replay"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.replay"), 0o700))

	files, err := discoverReplays(dir, ".replay")

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.REPLAY"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.replay"), files[1])
	assert.Equal(t, filepath.Join(dir, "c.replay"), files[2])
}

func TestDiscoverReplaysEmptyExtensionAcceptsAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anything.bin"), []byte("x"), 0o600))

	files, err := discoverReplays(dir, "")

	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestExtractReplayMissingFile(t *testing.T) {
	t.Parallel()

	out, err := extractReplay(context.Background(), filepath.Join(t.TempDir(), "gone.replay"))

	require.NoError(t, err)
	assert.True(t, out.missing)
	assert.Equal(t, corpus.ErrorFileNotFound, out.record.Error)
	assert.Empty(t, out.record.MatchDetails)
}

func TestExtractReplayBuildsRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "match.replay")

	content := []byte("\x00build: '118935'\x01{\"m_endGameType\":\"Win\"}\x02Ace#111 Bob#222\x03")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	out, err := extractReplay(context.Background(), path)

	require.NoError(t, err)
	assert.False(t, out.missing)
	assert.Empty(t, out.record.Error)
	assert.Equal(t, len(content), out.bytes)

	require.Len(t, out.record.MatchDetails, 1)

	field, ok := out.record.MatchDetails[0].Field("m_endGameType")
	require.True(t, ok)
	assert.Equal(t, "Win", field.StringValue())

	require.NotNil(t, out.record.GameVersion)
	require.NotNil(t, out.record.GameVersion.Build)
	assert.Equal(t, "118935", *out.record.GameVersion.Build)
	assert.Nil(t, out.record.GameVersion.Branch)

	assert.Equal(t, []string{"Ace#111", "Bob#222"}, out.record.Players)
}

func TestScanRunToleratesZeroBatchSize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "match.replay"), []byte(`{"m_endGameType":"Win"}`), 0o600))

	// batchSize stays at its zero value, as an unvalidated flag would leave it.
	sc := &ScanCommand{
		app:        newTestApp(tracenoop.NewTracerProvider().Tracer("replaylab-test")),
		corpusPath: filepath.Join(t.TempDir(), "corpus.json"),
		extension:  ".replay",
	}

	require.NoError(t, sc.run(context.Background(), dir))

	doc, err := corpus.LoadSnapshot(sc.corpusPath)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.TotalFiles)
	assert.Equal(t, 1, doc.ProcessedFiles)
}

func TestScanRunEmitsSpans(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"a.replay", "b.replay"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{"m_endGameType":"Win"}`), 0o600))
	}

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	sc := &ScanCommand{
		app:        newTestApp(provider.Tracer("replaylab-test")),
		corpusPath: filepath.Join(t.TempDir(), "corpus.json"),
		batchSize:  1,
		extension:  ".replay",
	}

	require.NoError(t, sc.run(context.Background(), dir))

	var batchSpans, fileSpans int

	for _, span := range recorder.Ended() {
		switch span.Name() {
		case "scan.batch":
			batchSpans++
		case "scan.file":
			fileSpans++
		}
	}

	assert.Equal(t, 1, batchSpans)
	assert.Equal(t, 2, fileSpans)
}

func TestBuildRecordOmitsAbsentMetadata(t *testing.T) {
	t.Parallel()

	record := buildRecord([]byte("nothing structured here"))

	assert.Nil(t, record.GameVersion)
	assert.Empty(t, record.Players)
	assert.Empty(t, record.MatchDetails)
}
