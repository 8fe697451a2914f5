// Package spatial provides neighborhood operations on row-major pixel grids.
//
// A grid of width×height pixels is stored as a flat slice where pixel (row,
// col) lives at index row*width+col. Neighborhoods are 3×3 windows clipped at
// the borders: cells outside the grid are omitted, never padded or wrapped.
package spatial

import (
	"fmt"
	"slices"

	"github.com/hupe1980/sdrecon/model"
)

// GaussianKernel weights the 3×3 neighborhood in GaussianLocalVote.
var GaussianKernel = [3][3]float64{
	{0.075, 0.124, 0.075},
	{0.124, 0.204, 0.124},
	{0.075, 0.124, 0.075},
}

// CheckDimensions returns an error matching model.ErrInvalidArgument unless
// length == width*height with non-negative dimensions.
func CheckDimensions(length, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: negative grid dimensions %dx%d", model.ErrInvalidArgument, width, height)
	}
	if !gridHolds(length, width, height) {
		return fmt.Errorf("grid %dx%d: %w", width, height, &model.ErrLengthMismatch{Expected: width * height, Actual: length})
	}
	return nil
}

// gridHolds reports whether length == width*height without overflowing.
func gridHolds(length, width, height int) bool {
	if width == 0 {
		return length == 0
	}
	return length%width == 0 && length/width == height
}

// MedianFilter replaces each pixel with the median of its clipped 3×3
// neighborhood. With an even number of neighbors the upper median is used.
// The input is not modified.
func MedianFilter(image []uint8, width, height int) ([]uint8, error) {
	if err := CheckDimensions(len(image), width, height); err != nil {
		return nil, fmt.Errorf("median filter: %w", err)
	}

	filtered := make([]uint8, len(image))
	var window [9]uint8
	for row := range height {
		for col := range width {
			n := 0
			for r := max(0, row-1); r <= min(height-1, row+1); r++ {
				for c := max(0, col-1); c <= min(width-1, col+1); c++ {
					window[n] = image[r*width+c]
					n++
				}
			}
			neighbors := window[:n]
			slices.Sort(neighbors)
			filtered[row*width+col] = neighbors[n/2]
		}
	}
	return filtered, nil
}

// GaussianLocalVote returns the Gaussian-weighted mean of the clipped 3×3
// neighborhood around index, renormalized over the in-bounds cells.
// For binary images the result is in [0, 1].
//
// Assumes len(image) == width*height and 0 <= index < len(image) (caller's responsibility).
func GaussianLocalVote(image []uint8, index, width, height int) float64 {
	row := index / width
	col := index % width

	var weightedSum, totalWeight float64
	for i := -1; i <= 1; i++ {
		r := row + i
		if r < 0 || r >= height {
			continue
		}
		for j := -1; j <= 1; j++ {
			c := col + j
			if c < 0 || c >= width {
				continue
			}
			w := GaussianKernel[i+1][j+1]
			weightedSum += w * float64(image[r*width+c])
			totalWeight += w
		}
	}
	return weightedSum / totalWeight
}

// Reshape splits a row-major image into height rows of width pixels.
// The rows are copies.
func Reshape(image []uint8, width, height int) ([][]uint8, error) {
	if err := CheckDimensions(len(image), width, height); err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}

	rows := make([][]uint8, height)
	for r := range height {
		rows[r] = slices.Clone(image[r*width : (r+1)*width])
	}
	return rows, nil
}
