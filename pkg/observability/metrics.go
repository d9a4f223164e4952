package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal    = "replaylab.scan.files.total"
	metricSegmentsTotal = "replaylab.scan.segments.total"
	metricScanDuration  = "replaylab.scan.file.duration.seconds"
	metricFlushesTotal  = "replaylab.corpus.flushes.total"

	attrOutcome = "outcome"
)

// Scan outcomes recorded on the files counter.
const (
	OutcomeOK      = "ok"
	OutcomeMissing = "missing"
)

// scanDurationBoundaries covers microsecond-scale tiny files up to
// multi-second scans of large replays.
var scanDurationBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ScanMetrics holds the OTel instruments for the extraction pipeline.
type ScanMetrics struct {
	filesTotal    metric.Int64Counter
	segmentsTotal metric.Int64Counter
	scanDuration  metric.Float64Histogram
	flushesTotal  metric.Int64Counter
}

// NewScanMetrics creates the pipeline instruments from the given meter.
func NewScanMetrics(mt metric.Meter) (*ScanMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Replay files processed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	segments, err := mt.Int64Counter(metricSegmentsTotal,
		metric.WithDescription("Structured segments recovered"),
		metric.WithUnit("{segment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSegmentsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricScanDuration,
		metric.WithDescription("Per-file scan duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(scanDurationBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricScanDuration, err)
	}

	flushes, err := mt.Int64Counter(metricFlushesTotal,
		metric.WithDescription("Corpus document flushes"),
		metric.WithUnit("{flush}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFlushesTotal, err)
	}

	return &ScanMetrics{
		filesTotal:    files,
		segmentsTotal: segments,
		scanDuration:  duration,
		flushesTotal:  flushes,
	}, nil
}

// RecordFile records one processed file with its outcome, recovered segment
// count, and scan duration.
func (sm *ScanMetrics) RecordFile(ctx context.Context, outcome string, segments int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrOutcome, outcome))

	sm.filesTotal.Add(ctx, 1, attrs)
	sm.segmentsTotal.Add(ctx, int64(segments))
	sm.scanDuration.Record(ctx, duration.Seconds())
}

// RecordFlush records one corpus flush.
func (sm *ScanMetrics) RecordFlush(ctx context.Context) {
	sm.flushesTotal.Add(ctx, 1)
}
