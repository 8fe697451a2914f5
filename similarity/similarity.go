package similarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/sdrecon/model"
	"gonum.org/v1/gonum/stat"
)

// Number is the set of element types the scoring functions accept.
type Number interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// SSIM stabilization constants for an 8-bit dynamic range.
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)
)

func checkLengths(expected, actual int) error {
	if expected != actual {
		return &model.ErrLengthMismatch{Expected: expected, Actual: actual}
	}
	return nil
}

// Magnitude calculates the L2 norm of v.
func Magnitude[T Number](v []T) float64 {
	var sum float64
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// CosineSimilarity calculates dot(a, b) / (‖a‖·‖b‖).
// Returns 0 if either vector has zero norm.
func CosineSimilarity[T Number](a, b []T) (float64, error) {
	if err := checkLengths(len(a), len(b)); err != nil {
		return 0, fmt.Errorf("cosine similarity: %w", err)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	// Avoid division by zero
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// BinaryAgreement returns the fraction of positions where a and b hold the
// same value. Two empty vectors agree completely.
func BinaryAgreement[T comparable](a, b []T) (float64, error) {
	if err := checkLengths(len(a), len(b)); err != nil {
		return 0, fmt.Errorf("binary agreement: %w", err)
	}
	if len(a) == 0 {
		return 1, nil
	}

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same) / float64(len(a)), nil
}

// squareHolds reports whether length == rowSize*rowSize without overflowing.
func squareHolds(length, rowSize int) bool {
	if rowSize == 0 {
		return length == 0
	}
	return length%rowSize == 0 && length/rowSize == rowSize
}

// ToSquareMatrixText renders v row-major as rowSize lines of rowSize
// characters, '1' for elements equal to 1 and '0' otherwise. Lines are
// joined by '\n' without a trailing newline.
func ToSquareMatrixText[T Number](v []T, rowSize int) (string, error) {
	if rowSize < 0 {
		return "", fmt.Errorf("%w: negative row size %d", model.ErrInvalidArgument, rowSize)
	}
	if !squareHolds(len(v), rowSize) {
		return "", fmt.Errorf("square matrix %dx%d: %w", rowSize, rowSize,
			&model.ErrLengthMismatch{Expected: rowSize * rowSize, Actual: len(v)})
	}

	var sb strings.Builder
	sb.Grow(len(v) + rowSize)
	for i, x := range v {
		if i > 0 && i%rowSize == 0 {
			sb.WriteByte('\n')
		}
		if x == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String(), nil
}

// SSIM computes the global structural similarity index between a and b,
// treating each as a single window with an 8-bit dynamic range.
// Variance and covariance are sample estimates, so at least two elements are required.
func SSIM[T Number](a, b []T) (float64, error) {
	if err := checkLengths(len(a), len(b)); err != nil {
		return 0, fmt.Errorf("ssim: %w", err)
	}
	if len(a) < 2 {
		return 0, fmt.Errorf("%w: ssim needs at least two elements, got %d", model.ErrInvalidArgument, len(a))
	}

	x := toFloat64(a)
	y := toFloat64(b)

	muX := stat.Mean(x, nil)
	muY := stat.Mean(y, nil)
	sigmaX := stat.Variance(x, nil)
	sigmaY := stat.Variance(y, nil)
	sigmaXY := stat.Covariance(x, y, nil)

	num := (2*muX*muY + ssimC1) * (2*sigmaXY + ssimC2)
	den := (muX*muX + muY*muY + ssimC1) * (sigmaX + sigmaY + ssimC2)

	return num / den, nil
}

func toFloat64[T Number](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
