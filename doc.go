// Package sdrecon reconstructs binary images from Sparse Distributed
// Representations (SDRs).
//
// Two memory-based predictors share the same training data:
//
//   - An associative reconstructor blends the images of the examples whose
//     SDRs overlap most with the query, weighting each by its squared overlap.
//   - A neighbor classifier votes among the closest examples and returns the
//     training image of the winner.
//
// Their candidates are fused pixel by pixel, weighted by a confidence per
// candidate, with disagreements resolved by a Gaussian-weighted local vote,
// and finally smoothed with a 3×3 median filter.
//
// # Quick Start
//
//	eng, err := sdrecon.New(sdrecon.WithDimensions(28, 28))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = eng.Train(ctx, sdrecon.Sample{
//	    Name:  "3_001",
//	    Label: 3,
//	    Key:   1,
//	    SDR:   sdr.New(12, 85, 301),
//	    Image: pixels, // 784 values, 0 or 1
//	})
//
//	res, err := eng.Reconstruct(ctx, 3, query, nil)
//	fmt.Println(res.Final)
//
// # Evaluation
//
// Evaluate runs held-out samples through both predictors and the fusion and
// scores each against its ground truth image:
//
//	report, err := eng.Evaluate(ctx, testSamples)
//	fmt.Printf("combined: %.2f%%\n", report.CombinedSummary.MeanVectorPct)
//
// # Components
//
// The building blocks live in their own packages and can be used directly:
// sdr (the SDR type), store (overlap ranking), reconstruct, classify,
// similarity, spatial and fusion. They are not safe for concurrent mutation;
// Engine adds the locking.
//
// # Observability
//
// Engine logs through log/slog (see WithLogger) and reports latencies and
// counts to a MetricsCollector (see WithMetricsCollector). The observability
// package provides a Prometheus collector.
package sdrecon
