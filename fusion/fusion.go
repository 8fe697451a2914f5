// Package fusion blends two candidate reconstructions of the same image into
// one, weighting each by a confidence and resolving pixel disagreements with a
// Gaussian-weighted local vote.
//
// For every pixel p:
//
//	blended = (confA·A[p] + confB·B[p]) / (confA + confB)
//	A[p] == B[p]: out[p] = blended ≥ 0.5
//	A[p] != B[p]: out[p] = (blended + (voteA + voteB)/2) / 2 ≥ 0.5
//
// where voteX is spatial.GaussianLocalVote of X around p. When both
// confidences are zero the divisor is 1, so blended is 0 everywhere and only
// the local vote can activate a disagreeing pixel.
package fusion

import (
	"fmt"
	"math"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/spatial"
)

// Threshold is the minimum blended score for an active output pixel.
const Threshold = 0.5

func checkConfidence(name string, c float64) error {
	if math.IsNaN(c) || c < 0 || c > 1 {
		return fmt.Errorf("%w: confidence %s = %v outside [0, 1]", model.ErrInvalidArgument, name, c)
	}
	return nil
}

// Fuse combines the candidates a and b of a width×height image.
func Fuse(a, b []uint8, confA, confB float64, width, height int) ([]uint8, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("fuse: %w", &model.ErrLengthMismatch{Expected: len(a), Actual: len(b)})
	}
	if err := spatial.CheckDimensions(len(a), width, height); err != nil {
		return nil, fmt.Errorf("fuse: %w", err)
	}
	if err := checkConfidence("A", confA); err != nil {
		return nil, fmt.Errorf("fuse: %w", err)
	}
	if err := checkConfidence("B", confB); err != nil {
		return nil, fmt.Errorf("fuse: %w", err)
	}

	totalConf := confA + confB
	if totalConf == 0 {
		totalConf = 1
	}

	out := make([]uint8, len(a))
	for p := range a {
		blended := (confA*float64(a[p]) + confB*float64(b[p])) / totalConf
		decision := blended
		if a[p] != b[p] {
			localMajority := (spatial.GaussianLocalVote(a, p, width, height) +
				spatial.GaussianLocalVote(b, p, width, height)) / 2
			decision = (blended + localMajority) / 2
		}
		if decision >= Threshold {
			out[p] = 1
		}
	}
	return out, nil
}

// FuseAndSmooth fuses a and b and cleans the result with a 3×3 median filter.
// It returns both the fused image and its smoothed version.
func FuseAndSmooth(a, b []uint8, confA, confB float64, width, height int) (fused, smoothed []uint8, err error) {
	fused, err = Fuse(a, b, confA, confB, width, height)
	if err != nil {
		return nil, nil, err
	}
	smoothed, err = spatial.MedianFilter(fused, width, height)
	if err != nil {
		return nil, nil, err
	}
	return fused, smoothed, nil
}
