package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/HEATLabs/replaylab/pkg/corpus"
	"github.com/HEATLabs/replaylab/pkg/observability"
	"github.com/HEATLabs/replaylab/pkg/pipeline"
	"github.com/HEATLabs/replaylab/pkg/replay"
)

// ScanCommand rebuilds the corpus document from a directory of replay files.
type ScanCommand struct {
	app *App

	corpusPath string
	workers    int
	batchSize  int
	extension  string
	noBackup   bool
}

// NewScanCommand creates the scan subcommand.
func NewScanCommand(app *App) *cobra.Command {
	sc := &ScanCommand{app: app}

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Extract match data from every replay file in a directory",
		Long: `Scan walks a directory of replay files, recovers the embedded JSON
segments, build metadata and player handles from each file, and rebuilds
the corpus document from scratch. The document on disk is valid JSON
after every write, so an interrupted scan never corrupts it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc.applyConfig(cmd)

			return sc.run(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&sc.corpusPath, "corpus", "c", "", "path to the corpus document")
	cmd.Flags().IntVarP(&sc.workers, "workers", "w", 0, "extraction workers (0 = one per CPU)")
	cmd.Flags().IntVarP(&sc.batchSize, "batch-size", "b", 0, "files per corpus write")
	cmd.Flags().StringVarP(&sc.extension, "extension", "e", "", "replay file extension filter")
	cmd.Flags().BoolVar(&sc.noBackup, "no-backup", false, "skip the compressed backup of the previous corpus")

	return cmd
}

// applyConfig fills every flag the user did not set from the loaded config.
func (sc *ScanCommand) applyConfig(cmd *cobra.Command) {
	cfg := sc.app.Config

	if !cmd.Flags().Changed("corpus") {
		sc.corpusPath = cfg.Corpus.Path
	}

	if !cmd.Flags().Changed("workers") {
		sc.workers = cfg.Scan.Workers
	}

	if !cmd.Flags().Changed("batch-size") {
		sc.batchSize = cfg.Corpus.BatchSize
	}

	if !cmd.Flags().Changed("extension") {
		sc.extension = cfg.Scan.Extension
	}

	if !cmd.Flags().Changed("no-backup") {
		sc.noBackup = !cfg.Corpus.Backup
	}
}

// scanOutput is what the extraction workers hand to the single writer.
type scanOutput struct {
	record   corpus.MatchRecord
	bytes    int
	segments int
	missing  bool
	elapsed  time.Duration
}

func (sc *ScanCommand) run(parent context.Context, dir string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := discoverReplays(dir, sc.extension)
	if err != nil {
		return err
	}

	sc.app.progressf("Found %d replay files in %s\n", len(files), dir)

	// Non-positive flag values fall back to the default, mirroring the
	// store's own guard; the flush modulo below divides by this.
	if sc.batchSize < 1 {
		sc.batchSize = corpus.DefaultBatchSize
	}

	store := corpus.NewStore(sc.corpusPath)
	store.BatchSize = sc.batchSize
	store.Backup = !sc.noBackup
	store.Logger = sc.app.Logger()

	recovered, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	if recovered {
		sc.app.progressf("Existing corpus at %s was unreadable; starting fresh\n", sc.corpusPath)
	}

	initErr := store.Initialize(len(files))
	if initErr != nil {
		return fmt.Errorf("initializing corpus: %w", initErr)
	}

	metrics, err := observability.NewScanMetrics(sc.app.Providers.Meter)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	tracer := sc.app.Providers.Tracer

	ctx, span := tracer.Start(ctx, "scan.batch",
		trace.WithAttributes(attribute.Int("scan.files", len(files))))
	defer span.End()

	extract := func(ctx context.Context, path string) (scanOutput, error) {
		ctx, fileSpan := tracer.Start(ctx, "scan.file",
			trace.WithAttributes(attribute.String("scan.filename", filepath.Base(path))))
		defer fileSpan.End()

		out, extractErr := extractReplay(ctx, path)

		fileSpan.SetAttributes(attribute.Int("scan.segments", out.segments))

		return out, extractErr
	}

	workers := sc.workers
	if workers <= 0 {
		workers = pipeline.DefaultWorkers()
	}

	var done, totalBytes, totalSegments int

	started := time.Now()

	apply := func(res pipeline.Result[scanOutput]) error {
		if res.Err != nil {
			return res.Err
		}

		updateErr := store.Update(res.Filename, res.Output.record)
		if updateErr != nil {
			return fmt.Errorf("updating corpus: %w", updateErr)
		}

		outcome := observability.OutcomeOK
		if res.Output.missing {
			outcome = observability.OutcomeMissing
		}

		metrics.RecordFile(ctx, outcome, res.Output.segments, res.Output.elapsed)

		done++
		totalBytes += res.Output.bytes
		totalSegments += res.Output.segments

		if done%store.BatchSize == 0 {
			metrics.RecordFlush(ctx)
		}

		sc.app.progressf("[%d/%d] %s: %d segments, %s\n",
			done, len(files), filepath.Base(res.Filename),
			res.Output.segments, humanize.Bytes(uint64(res.Output.bytes)))

		return nil
	}

	runErr := pipeline.Run(ctx, files, workers, extract, apply)

	flushErr := store.Flush()
	if flushErr != nil {
		return fmt.Errorf("flushing corpus: %w", flushErr)
	}

	if done%store.BatchSize != 0 {
		metrics.RecordFlush(ctx)
	}

	if runErr != nil {
		return runErr
	}

	sc.app.progressf("Processed %d files (%d segments, %s) in %s\n",
		done, totalSegments, humanize.Bytes(uint64(totalBytes)),
		time.Since(started).Round(time.Millisecond))
	sc.app.progressf("Corpus written to %s\n", sc.corpusPath)

	return nil
}

// discoverReplays lists the replay files directly under dir, filtered by
// extension (case-insensitive) and sorted by name. It does not recurse.
func discoverReplays(dir, extension string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading replay directory: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if extension != "" && !strings.EqualFold(filepath.Ext(entry.Name()), extension) {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)

	return files, nil
}

// extractReplay reads and scans one replay file. Unreadable files become
// error records so an incomplete input set never aborts the whole batch.
func extractReplay(_ context.Context, path string) (scanOutput, error) {
	started := time.Now()

	raw, err := os.ReadFile(path)
	if err != nil {
		record := corpus.MatchRecord{Error: err.Error()}

		missing := errors.Is(err, fs.ErrNotExist)
		if missing {
			record.Error = corpus.ErrorFileNotFound
		}

		return scanOutput{record: record, missing: missing, elapsed: time.Since(started)}, nil
	}

	record := buildRecord(raw)

	return scanOutput{
		record:   record,
		bytes:    len(raw),
		segments: len(record.MatchDetails),
		elapsed:  time.Since(started),
	}, nil
}

// buildRecord runs the full extraction chain over one file's contents.
func buildRecord(raw []byte) corpus.MatchRecord {
	segments := replay.Scan(raw)

	details := make([]replay.Value, 0, len(segments))
	for _, seg := range segments {
		details = append(details, seg.Value)
	}

	record := corpus.MatchRecord{
		MatchDetails: details,
		Players:      replay.ExtractPlayerHandles(raw),
	}

	info := replay.ExtractBuildInfo(raw)
	if info.Build != nil || info.Branch != nil {
		record.GameVersion = &info
	}

	return record
}
