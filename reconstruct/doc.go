// Package reconstruct implements overlap-ranked associative reconstruction.
//
// A Reconstructor stores (key, SDR, image) triples. Given a query SDR it ranks
// the stored examples by overlap, keeps the top k and averages their images
// pixel by pixel, weighting each example by a power of its overlap:
//
//	pixelSum[p]  = Σ overlap_i^WeightExponent · image_i[p]
//	totalWeight  = Σ overlap_i^NormExponent
//	output[p]    = pixelSum[p]/totalWeight ≥ Threshold ? 1 : 0
//
// The defaults (WeightExponent 2, NormExponent 1) put numerator and
// denominator on different scales. That behavior is kept as the default and
// both exponents are configurable; WithNormExponent(2) yields a true weighted
// average.
//
// Example:
//
//	r := reconstruct.New()
//	_ = r.Learn(1, sdr.New(1, 2, 3), []uint8{0, 1, 0, 1})
//	img, err := r.Predict(sdr.New(1, 2, 3), 3)
package reconstruct
