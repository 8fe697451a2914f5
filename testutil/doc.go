// Package testutil provides testing utilities for sdrecon.
//
// This package is intended for use in tests, examples and benchmarks only.
// It provides a seeded random source for generating SDRs, binary images and
// noisy variants of both, so that tests are reproducible.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	pattern := rng.SDR(1024, 40)        // 40 active indices out of 1024
//	image := rng.BinaryImage(784, 0.2)  // ~20% ones
//	noisy := rng.FlipBits(image, 0.05)  // flip ~5% of the pixels
//
// # Labeled Datasets
//
//	samples := rng.Prototypes(10, 784, 1024, 40) // one prototype per label
package testutil
