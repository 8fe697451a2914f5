package sdrecon

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the observability package for a ready-made adapter).
type MetricsCollector interface {
	// RecordTrain is called after each training sample.
	// err is nil if the sample was stored.
	RecordTrain(duration time.Duration, err error)

	// RecordPredict is called after each associative reconstruction.
	RecordPredict(k int, duration time.Duration, err error)

	// RecordClassify is called after each neighbor classification.
	RecordClassify(k int, duration time.Duration, err error)

	// RecordFuse is called after each fusion (including smoothing).
	RecordFuse(duration time.Duration, err error)

	// RecordEvaluate is called after each evaluation run.
	// evaluated and skipped count the samples of the run.
	RecordEvaluate(evaluated, skipped int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrain(time.Duration, error)         {}
func (NoopMetricsCollector) RecordPredict(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordClassify(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFuse(time.Duration, error)          {}
func (NoopMetricsCollector) RecordEvaluate(int, int, time.Duration)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrainCount         atomic.Int64
	TrainErrors        atomic.Int64
	PredictCount       atomic.Int64
	PredictErrors      atomic.Int64
	PredictTotalNanos  atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
	FuseCount          atomic.Int64
	FuseErrors         atomic.Int64
	EvaluateCount      atomic.Int64
	EvaluatedSamples   atomic.Int64
	SkippedSamples     atomic.Int64
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(duration time.Duration, err error) {
	b.TrainCount.Add(1)
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordPredict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredict(k int, duration time.Duration, err error) {
	b.PredictCount.Add(1)
	b.PredictTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PredictErrors.Add(1)
	}
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(k int, duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// RecordFuse implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFuse(duration time.Duration, err error) {
	b.FuseCount.Add(1)
	if err != nil {
		b.FuseErrors.Add(1)
	}
}

// RecordEvaluate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluate(evaluated, skipped int, duration time.Duration) {
	b.EvaluateCount.Add(1)
	b.EvaluatedSamples.Add(int64(evaluated))
	b.SkippedSamples.Add(int64(skipped))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrainCount:       b.TrainCount.Load(),
		TrainErrors:      b.TrainErrors.Load(),
		PredictCount:     b.PredictCount.Load(),
		PredictErrors:    b.PredictErrors.Load(),
		PredictAvgNanos:  avg(b.PredictTotalNanos.Load(), b.PredictCount.Load()),
		ClassifyCount:    b.ClassifyCount.Load(),
		ClassifyErrors:   b.ClassifyErrors.Load(),
		ClassifyAvgNanos: avg(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
		FuseCount:        b.FuseCount.Load(),
		FuseErrors:       b.FuseErrors.Load(),
		EvaluateCount:    b.EvaluateCount.Load(),
		EvaluatedSamples: b.EvaluatedSamples.Load(),
		SkippedSamples:   b.SkippedSamples.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrainCount       int64
	TrainErrors      int64
	PredictCount     int64
	PredictErrors    int64
	PredictAvgNanos  int64
	ClassifyCount    int64
	ClassifyErrors   int64
	ClassifyAvgNanos int64
	FuseCount        int64
	FuseErrors       int64
	EvaluateCount    int64
	EvaluatedSamples int64
	SkippedSamples   int64
}
