package sdrecon

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/similarity"
)

// Summary aggregates the similarity scores of one reconstruction method.
type Summary struct {
	Count         int
	MeanVectorPct float64
	StdVectorPct  float64
	MinVectorPct  float64
	MaxVectorPct  float64
	MeanBinaryPct float64
	StdBinaryPct  float64
	MeanSSIM      float64
}

// Summarize aggregates data. Standard deviations are sample estimates and are
// zero for fewer than two entries.
func Summarize(data []model.SimilarityData) Summary {
	s := Summary{Count: len(data)}
	if len(data) == 0 {
		return s
	}

	vec := make([]float64, len(data))
	bin := make([]float64, len(data))
	ssim := make([]float64, len(data))
	for i, d := range data {
		vec[i] = d.VectorSimilarityPct
		bin[i] = d.BinarySimilarityPct
		ssim[i] = d.SSIM
	}

	s.MeanVectorPct, s.StdVectorPct = stat.MeanStdDev(vec, nil)
	s.MeanBinaryPct, s.StdBinaryPct = stat.MeanStdDev(bin, nil)
	s.MeanSSIM = stat.Mean(ssim, nil)
	s.MinVectorPct = slices.Min(vec)
	s.MaxVectorPct = slices.Max(vec)
	if len(data) < 2 {
		s.StdVectorPct, s.StdBinaryPct = 0, 0
	}
	return s
}

// SkippedSample is a sample Evaluate could not score.
type SkippedSample struct {
	Name   string
	Label  model.Label
	Reason error
}

// Report is the outcome of an evaluation run.
type Report struct {
	RunID uuid.UUID

	// Per-sample scores against ground truth, ordered by label and then by
	// input order.
	Associative []model.SimilarityData
	Neighbor    []model.SimilarityData
	Combined    []model.SimilarityData

	AssociativeSummary Summary
	NeighborSummary    Summary
	CombinedSummary    Summary

	Skipped []SkippedSample
	Elapsed time.Duration
}

// Evaluated returns the number of scored samples.
func (r *Report) Evaluated() int {
	return len(r.Combined)
}

type labelResult struct {
	assoc    []model.SimilarityData
	neighbor []model.SimilarityData
	combined []model.SimilarityData
	skipped  []SkippedSample
}

// Evaluate reconstructs every sample from its SDR and scores the associative,
// neighbor and combined reconstructions against the sample image. The cosine
// similarity of each candidate to the ground truth is its fusion confidence.
//
// Partitions are evaluated concurrently, bounded by WithMaxWorkers and
// WithQueryRate. Samples without a trained partition, or that fail
// validation, are skipped and listed in the report. Evaluate fails only on
// context cancellation.
func (e *Engine) Evaluate(ctx context.Context, samples []Sample) (report *Report, err error) {
	start := time.Now()
	runID := uuid.New()
	logger := e.opts.logger.WithRunID(runID.String())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byLabel := make(map[model.Label][]Sample)
	for _, s := range samples {
		byLabel[s.Label] = append(byLabel[s.Label], s)
	}
	labels := slices.Sorted(maps.Keys(byLabel))
	results := make([]labelResult, len(labels))

	defer func() {
		evaluated, skipped := 0, 0
		if report != nil {
			evaluated, skipped = report.Evaluated(), len(report.Skipped)
		}
		e.opts.metricsCollector.RecordEvaluate(evaluated, skipped, time.Since(start))
		logger.LogEvaluate(ctx, evaluated, skipped, time.Since(start), err)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		p, perr := e.partition(label)
		if perr != nil {
			for _, s := range byLabel[label] {
				logger.LogSkipped(ctx, s.Name, label, perr)
				results[i].skipped = append(results[i].skipped, SkippedSample{Name: s.Name, Label: label, Reason: perr})
			}
			continue
		}

		g.Go(func() error {
			if err := e.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer e.rc.ReleaseWorker()

			plog := logger.WithPartition(label)
			for _, s := range byLabel[label] {
				if err := e.rc.AcquireQuery(gctx); err != nil {
					return err
				}

				a, n, c, err := e.evaluateSample(p, s)
				if err != nil {
					if !isSkippable(err) {
						return partitionError(label, err)
					}
					err = partitionError(label, err)
					plog.LogSkipped(gctx, s.Name, label, err)
					results[i].skipped = append(results[i].skipped, SkippedSample{Name: s.Name, Label: label, Reason: err})
					continue
				}
				results[i].assoc = append(results[i].assoc, a)
				results[i].neighbor = append(results[i].neighbor, n)
				results[i].combined = append(results[i].combined, c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report = &Report{RunID: runID}
	for _, r := range results {
		report.Associative = append(report.Associative, r.assoc...)
		report.Neighbor = append(report.Neighbor, r.neighbor...)
		report.Combined = append(report.Combined, r.combined...)
		report.Skipped = append(report.Skipped, r.skipped...)
	}
	report.AssociativeSummary = Summarize(report.Associative)
	report.NeighborSummary = Summarize(report.Neighbor)
	report.CombinedSummary = Summarize(report.Combined)
	report.Elapsed = time.Since(start)
	return report, nil
}

func (e *Engine) evaluateSample(p *partition, s Sample) (assocData, neighborData, combinedData model.SimilarityData, err error) {
	if err = e.checkSample(s); err != nil {
		return
	}

	p.mu.RLock()
	assoc, idx, err := e.candidates(p, s.SDR)
	var neighbor []uint8
	if err == nil {
		neighbor = p.gallery[idx]
	}
	p.mu.RUnlock()
	if err != nil {
		return
	}

	if assocData, err = Score(s.Name, s.Image, assoc); err != nil {
		return
	}
	if neighborData, err = Score(s.Name, s.Image, neighbor); err != nil {
		return
	}

	conf := Confidence{
		Associative: clampUnit(assocData.VectorSimilarityPct / 100),
		Neighbor:    clampUnit(neighborData.VectorSimilarityPct / 100),
	}
	_, final, err := e.fuse(assoc, neighbor, conf)
	if err != nil {
		return
	}

	combinedData, err = Score(s.Name, s.Image, final)
	return
}

// Score compares a reconstruction with its ground truth.
func Score(name string, truth, reconstructed []uint8) (model.SimilarityData, error) {
	cos, err := similarity.CosineSimilarity(truth, reconstructed)
	if err != nil {
		return model.SimilarityData{}, fmt.Errorf("score %q: %w", name, err)
	}
	agreement, err := similarity.BinaryAgreement(truth, reconstructed)
	if err != nil {
		return model.SimilarityData{}, fmt.Errorf("score %q: %w", name, err)
	}
	ssim, err := similarity.SSIM(truth, reconstructed)
	if err != nil {
		return model.SimilarityData{}, fmt.Errorf("score %q: %w", name, err)
	}

	return model.SimilarityData{
		Name:                name,
		VectorSimilarityPct: cos * 100,
		BinarySimilarityPct: agreement * 100,
		SSIM:                ssim,
	}, nil
}
