package sdrecon

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/reconstruct"
	"github.com/hupe1980/sdrecon/sdr"
	"github.com/hupe1980/sdrecon/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfImage is a 4×4 image with the left two columns set. The median filter
// leaves it unchanged.
var halfImage = []uint8{
	1, 1, 0, 0,
	1, 1, 0, 0,
	1, 1, 0, 0,
	1, 1, 0, 0,
}

func newTestEngine(t *testing.T, optFns ...Option) *Engine {
	t.Helper()
	eng, err := New(append([]Option{WithDimensions(4, 4)}, optFns...)...)
	require.NoError(t, err)
	return eng
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		target error
	}{
		{"ZeroWidth", []Option{WithDimensions(0, 4)}, ErrInvalidArgument},
		{"NegativeHeight", []Option{WithDimensions(4, -1)}, ErrInvalidArgument},
		{"OverflowingDimensions", []Option{WithDimensions(1<<(strconv.IntSize/2), 1<<(strconv.IntSize/2))}, ErrInvalidArgument},
		{"ZeroAssociativeK", []Option{WithAssociativeK(0)}, ErrInvalidK},
		{"ZeroNeighborK", []Option{WithNeighborK(0)}, ErrInvalidK},
		{"ZeroWorkers", []Option{WithMaxWorkers(0)}, ErrInvalidArgument},
		{"NegativeRate", []Option{WithQueryRate(-1)}, ErrInvalidArgument},
		{"NegativeMemory", []Option{WithMemoryLimit(-1)}, ErrInvalidArgument},
		{"BadReconstructor", []Option{WithReconstructorOptions(reconstruct.WithWeightExponent(-1))}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("Defaults", func(t *testing.T) {
		eng, err := New(nil, WithLogger(nil), WithMetricsCollector(nil))
		require.NoError(t, err)
		w, h := eng.Dimensions()
		assert.Equal(t, DefaultWidth, w)
		assert.Equal(t, DefaultHeight, h)
	})
}

func TestEngineTrain(t *testing.T) {
	ctx := context.Background()

	t.Run("Partitions", func(t *testing.T) {
		eng := newTestEngine(t)
		for i, label := range []model.Label{5, 1, 3, 1} {
			require.NoError(t, eng.Train(ctx, Sample{
				Label: label,
				Key:   model.Key(i),
				SDR:   sdr.New(uint32(i)),
				Image: halfImage,
			}))
		}

		assert.Equal(t, []model.Label{1, 3, 5}, eng.Partitions())

		st := eng.Stats()
		assert.Equal(t, 4, st.Examples)
		assert.Equal(t, []PartitionStats{{1, 2}, {3, 1}, {5, 1}}, st.Partitions)
		assert.Positive(t, st.MemoryBytes)
	})

	t.Run("WrongImageLength", func(t *testing.T) {
		eng := newTestEngine(t)
		err := eng.Train(ctx, Sample{Label: 2, SDR: sdr.New(1), Image: []uint8{1, 0}})

		var lm *ErrLengthMismatch
		require.ErrorAs(t, err, &lm)
		assert.Equal(t, 16, lm.Expected)
		assert.Equal(t, 2, lm.Actual)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		var pe *PartitionError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, model.Label(2), pe.Label)
		assert.Empty(t, eng.Partitions())
	})

	t.Run("NilSDR", func(t *testing.T) {
		eng := newTestEngine(t)
		err := eng.Train(ctx, Sample{Label: 1, Image: halfImage})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("StopsAtFirstError", func(t *testing.T) {
		eng := newTestEngine(t)
		err := eng.Train(ctx,
			Sample{Label: 1, SDR: sdr.New(1), Image: halfImage},
			Sample{Label: 1, SDR: nil, Image: halfImage},
			Sample{Label: 1, SDR: sdr.New(3), Image: halfImage},
		)
		require.Error(t, err)
		assert.Equal(t, 1, eng.Stats().Examples)
	})

	t.Run("MemoryLimit", func(t *testing.T) {
		eng := newTestEngine(t, WithMemoryLimit(40))
		require.NoError(t, eng.Train(ctx, Sample{Label: 1, SDR: sdr.New(1), Image: halfImage}))

		err := eng.Train(ctx, Sample{Label: 1, SDR: sdr.New(2), Image: halfImage})
		assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
		assert.Equal(t, 1, eng.Stats().Examples)
		assert.Equal(t, int64(40), eng.Stats().MemoryBytes)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		eng := newTestEngine(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := eng.Train(cctx, Sample{Label: 1, SDR: sdr.New(1), Image: halfImage})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, eng.Partitions())
	})

	t.Run("ConcurrentPartitions", func(t *testing.T) {
		eng := newTestEngine(t)
		var wg sync.WaitGroup
		for label := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 10 {
					err := eng.Train(ctx, Sample{
						Label: model.Label(label % 4),
						Key:   model.Key(i),
						SDR:   sdr.New(uint32(i)),
						Image: halfImage,
					})
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		st := eng.Stats()
		assert.Equal(t, 80, st.Examples)
		assert.Len(t, st.Partitions, 4)
	})
}

func TestEngineReconstruct(t *testing.T) {
	ctx := context.Background()

	t.Run("SingleExample", func(t *testing.T) {
		eng := newTestEngine(t)
		require.NoError(t, eng.Train(ctx, Sample{Label: 7, SDR: sdr.New(1, 2, 3), Image: halfImage}))

		res, err := eng.Reconstruct(ctx, 7, sdr.New(1, 2, 3), nil)
		require.NoError(t, err)

		assert.Equal(t, halfImage, res.Associative.Image)
		assert.Equal(t, halfImage, res.Neighbor.Image)
		assert.Equal(t, 0, res.NeighborIndex)
		assert.True(t, res.Associative.HasConfidence)
		assert.InDelta(t, 1.0, res.Associative.Confidence, 1e-9)
		assert.Equal(t, halfImage, res.Fused)
		assert.Equal(t, halfImage, res.Final)
	})

	t.Run("NeighborMapsToGallery", func(t *testing.T) {
		eng := newTestEngine(t)
		other := make([]uint8, 16)
		require.NoError(t, eng.Train(ctx,
			Sample{Label: 1, Key: 1, SDR: sdr.New(10, 11, 12), Image: other},
			Sample{Label: 1, Key: 2, SDR: sdr.New(1, 2, 3), Image: halfImage},
		))

		res, err := eng.Reconstruct(ctx, 1, sdr.New(1, 2, 3), &Confidence{Associative: 1, Neighbor: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, res.NeighborIndex)
		assert.Equal(t, halfImage, res.Neighbor.Image)
		assert.Equal(t, halfImage, res.Final)
	})

	t.Run("ResultIsACopy", func(t *testing.T) {
		eng := newTestEngine(t)
		require.NoError(t, eng.Train(ctx, Sample{Label: 1, SDR: sdr.New(1), Image: halfImage}))

		res, err := eng.Reconstruct(ctx, 1, sdr.New(1), nil)
		require.NoError(t, err)
		res.Neighbor.Image[0] = 0

		res, err = eng.Reconstruct(ctx, 1, sdr.New(1), nil)
		require.NoError(t, err)
		assert.Equal(t, halfImage, res.Neighbor.Image)
	})

	t.Run("UnknownPartition", func(t *testing.T) {
		eng := newTestEngine(t)
		_, err := eng.Reconstruct(ctx, 4, sdr.New(1), nil)

		assert.ErrorIs(t, err, ErrUnknownPartition)
		assert.ErrorIs(t, err, ErrInvalidState)
		var pe *PartitionError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, model.Label(4), pe.Label)
	})

	t.Run("InvalidConfidence", func(t *testing.T) {
		eng := newTestEngine(t)
		require.NoError(t, eng.Train(ctx, Sample{Label: 1, SDR: sdr.New(1), Image: halfImage}))

		_, err := eng.Reconstruct(ctx, 1, sdr.New(1), &Confidence{Associative: 2})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("NilQuery", func(t *testing.T) {
		eng := newTestEngine(t)
		_, err := eng.Reconstruct(ctx, 1, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("Metrics", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		eng := newTestEngine(t, WithMetricsCollector(metrics))
		require.NoError(t, eng.Train(ctx, Sample{Label: 1, SDR: sdr.New(1), Image: halfImage}))
		_, err := eng.Reconstruct(ctx, 1, sdr.New(1), nil)
		require.NoError(t, err)

		stats := metrics.GetStats()
		assert.Equal(t, int64(1), stats.TrainCount)
		assert.Equal(t, int64(1), stats.PredictCount)
		assert.Equal(t, int64(1), stats.ClassifyCount)
		assert.Equal(t, int64(1), stats.FuseCount)
		assert.Zero(t, stats.FuseErrors)
	})
}

func TestEngineEvaluate(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(42)
	protos := rng.Prototypes(3, 64, 512, 24)

	newTrained := func(t *testing.T, optFns ...Option) *Engine {
		t.Helper()
		eng, err := New(append([]Option{WithDimensions(8, 8)}, optFns...)...)
		require.NoError(t, err)
		for _, p := range protos {
			require.NoError(t, eng.Train(ctx, Sample{
				Name:  fmt.Sprintf("train_%d", p.Label),
				Label: model.Label(p.Label),
				SDR:   p.SDR,
				Image: p.Image,
			}))
		}
		return eng
	}

	testSamples := func() []Sample {
		// Deliberately not sorted by label.
		out := make([]Sample, 0, len(protos))
		for _, i := range []int{2, 0, 1} {
			p := protos[i]
			out = append(out, Sample{
				Name:  fmt.Sprintf("%d_test", p.Label),
				Label: model.Label(p.Label),
				SDR:   p.SDR,
				Image: p.Image,
			})
		}
		return out
	}

	t.Run("ExactRecall", func(t *testing.T) {
		eng := newTrained(t, WithMaxWorkers(2))
		report, err := eng.Evaluate(ctx, testSamples())
		require.NoError(t, err)

		assert.Equal(t, 3, report.Evaluated())
		assert.Empty(t, report.Skipped)
		assert.NotEmpty(t, report.RunID.String())

		names := make([]string, 0, 3)
		for _, d := range report.Associative {
			names = append(names, d.Name)
			assert.InDelta(t, 100.0, d.VectorSimilarityPct, 1e-9)
			assert.InDelta(t, 100.0, d.BinarySimilarityPct, 1e-9)
			assert.InDelta(t, 1.0, d.SSIM, 1e-9)
		}
		assert.Equal(t, []string{"0_test", "1_test", "2_test"}, names)

		for _, d := range report.Neighbor {
			assert.InDelta(t, 100.0, d.VectorSimilarityPct, 1e-9)
		}
		for _, d := range report.Combined {
			assert.LessOrEqual(t, d.VectorSimilarityPct, 100.0+1e-9)
			assert.GreaterOrEqual(t, d.BinarySimilarityPct, 0.0)
		}

		assert.Equal(t, 3, report.AssociativeSummary.Count)
		assert.InDelta(t, 100.0, report.AssociativeSummary.MeanVectorPct, 1e-9)
		assert.InDelta(t, 0.0, report.AssociativeSummary.StdVectorPct, 1e-9)
		assert.Equal(t, 3, report.CombinedSummary.Count)
	})

	t.Run("SkipsUnknownAndInvalid", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		eng := newTrained(t, WithMetricsCollector(metrics))

		samples := append(testSamples(),
			Sample{Name: "unknown", Label: 9, SDR: protos[0].SDR, Image: protos[0].Image},
			Sample{Name: "short", Label: 0, SDR: protos[0].SDR, Image: []uint8{1}},
		)
		report, err := eng.Evaluate(ctx, samples)
		require.NoError(t, err)

		assert.Equal(t, 3, report.Evaluated())
		require.Len(t, report.Skipped, 2)
		assert.Equal(t, "short", report.Skipped[0].Name)
		assert.ErrorIs(t, report.Skipped[0].Reason, ErrInvalidArgument)
		assert.Equal(t, "unknown", report.Skipped[1].Name)
		assert.ErrorIs(t, report.Skipped[1].Reason, ErrUnknownPartition)

		stats := metrics.GetStats()
		assert.Equal(t, int64(1), stats.EvaluateCount)
		assert.Equal(t, int64(3), stats.EvaluatedSamples)
		assert.Equal(t, int64(2), stats.SkippedSamples)
	})

	t.Run("Deterministic", func(t *testing.T) {
		eng := newTrained(t, WithMaxWorkers(3))
		first, err := eng.Evaluate(ctx, testSamples())
		require.NoError(t, err)
		second, err := eng.Evaluate(ctx, testSamples())
		require.NoError(t, err)

		assert.Equal(t, first.Combined, second.Combined)
		assert.NotEqual(t, first.RunID, second.RunID)
	})

	t.Run("QueryRate", func(t *testing.T) {
		eng := newTrained(t, WithQueryRate(1000))
		report, err := eng.Evaluate(ctx, testSamples())
		require.NoError(t, err)
		assert.Equal(t, 3, report.Evaluated())
	})

	t.Run("CanceledContext", func(t *testing.T) {
		eng := newTrained(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := eng.Evaluate(cctx, testSamples())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Empty", func(t *testing.T) {
		eng := newTrained(t)
		report, err := eng.Evaluate(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, report.Evaluated())
		assert.Zero(t, report.CombinedSummary.Count)
	})
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.SimilarityData{
		{VectorSimilarityPct: 80, BinarySimilarityPct: 90, SSIM: 0.5},
		{VectorSimilarityPct: 100, BinarySimilarityPct: 100, SSIM: 1},
	})

	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 90.0, s.MeanVectorPct, 1e-9)
	assert.InDelta(t, 14.142135623730951, s.StdVectorPct, 1e-9)
	assert.InDelta(t, 80.0, s.MinVectorPct, 1e-9)
	assert.InDelta(t, 100.0, s.MaxVectorPct, 1e-9)
	assert.InDelta(t, 95.0, s.MeanBinaryPct, 1e-9)
	assert.InDelta(t, 0.75, s.MeanSSIM, 1e-9)

	single := Summarize([]model.SimilarityData{{VectorSimilarityPct: 50}})
	assert.Zero(t, single.StdVectorPct)
	assert.InDelta(t, 50.0, single.MeanVectorPct, 1e-9)
}
