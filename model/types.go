package model

import (
	"fmt"
)

// Key is the opaque identifier of a learned reconstruction example.
// Keys are not required to be unique.
type Key uint64

// Label is the class label stored alongside an SDR by the overlap classifier.
type Label int

// Reconstruction is a reconstructed pixel vector.
type Reconstruction struct {
	// Image is the reconstructed pixel vector (0/1 for binary images).
	Image []uint8
	// Confidence is a scalar in [0, 1]. Only meaningful if HasConfidence is set.
	Confidence float64
	// HasConfidence reports whether Confidence was computed.
	HasConfidence bool
}

// WithConfidence returns a copy of r carrying the given confidence.
func (r Reconstruction) WithConfidence(c float64) Reconstruction {
	r.Confidence = c
	r.HasConfidence = true
	return r
}

// String returns a short description of the reconstruction.
func (r Reconstruction) String() string {
	if !r.HasConfidence {
		return fmt.Sprintf("Reconstruction(len=%d)", len(r.Image))
	}
	return fmt.Sprintf("Reconstruction(len=%d, conf=%.4f)", len(r.Image), r.Confidence)
}

// SimilarityData holds the similarity scores of one evaluated sample against
// its ground truth image.
type SimilarityData struct {
	// Name identifies the evaluated sample.
	Name string
	// VectorSimilarityPct is the cosine similarity in percent.
	VectorSimilarityPct float64
	// BinarySimilarityPct is the fraction of matching pixels in percent.
	BinarySimilarityPct float64
	// SSIM is the global structural similarity index.
	SSIM float64
}
