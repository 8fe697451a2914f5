package reconstruct

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/sdr"
	"github.com/hupe1980/sdrecon/store"
)

// Reconstructor is an associative memory of (key, SDR, image) examples.
//
// Learn is not safe for concurrent use. Predict only reads and may run
// concurrently as long as no Learn is in flight.
type Reconstructor struct {
	opts     options
	examples *store.Store[[]uint8]
	// imageLen is the image length established by the first Learn, -1 before.
	imageLen int
}

// New creates an empty Reconstructor. It panics if an option is invalid;
// use NewWithOptions to receive the error instead.
func New(optFns ...Option) *Reconstructor {
	r, err := NewWithOptions(optFns...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewWithOptions creates an empty Reconstructor and validates the options.
func NewWithOptions(optFns ...Option) (*Reconstructor, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Reconstructor{
		opts:     opts,
		examples: store.New[[]uint8](),
		imageLen: -1,
	}, nil
}

// Learn stores an example. Duplicate keys are allowed.
//
// The first call fixes the image length; later images must have the same
// length. The image is copied.
func (r *Reconstructor) Learn(key model.Key, pattern *sdr.SDR, image []uint8) error {
	if pattern == nil {
		return fmt.Errorf("%w: sdr must not be nil", model.ErrInvalidArgument)
	}
	if image == nil {
		return fmt.Errorf("%w: image must not be nil", model.ErrInvalidArgument)
	}
	if r.imageLen >= 0 && len(image) != r.imageLen {
		return fmt.Errorf("learn key %d: %w", key, &model.ErrLengthMismatch{Expected: r.imageLen, Actual: len(image)})
	}
	if r.imageLen < 0 {
		r.imageLen = len(image)
	}

	r.examples.Append(key, pattern, slices.Clone(image))
	return nil
}

// Predict reconstructs an image from the k stored examples with the highest
// overlap against query.
func (r *Reconstructor) Predict(query *sdr.SDR, k int) ([]uint8, error) {
	if k < 1 {
		return nil, model.ErrInvalidK
	}
	if r.examples.Len() == 0 {
		return nil, model.ErrEmptyStore
	}

	ranked := r.examples.Rank(query, k)
	imageLen := len(ranked[0].Example.Payload)
	if imageLen == 0 {
		return nil, model.ErrNoImageData
	}

	pixelSums := make([]float64, imageLen)
	var totalWeight float64
	for _, rk := range ranked {
		overlap := float64(rk.Overlap)
		weight := math.Pow(overlap, r.opts.weightExponent)
		totalWeight += math.Pow(overlap, r.opts.normExponent)
		if weight == 0 {
			continue
		}
		for i, v := range rk.Example.Payload {
			pixelSums[i] += float64(v) * weight
		}
	}

	out := make([]uint8, imageLen)
	if totalWeight == 0 {
		return out, nil
	}
	for i, sum := range pixelSums {
		if sum/totalWeight >= r.opts.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

// Len returns the number of learned examples.
func (r *Reconstructor) Len() int {
	return r.examples.Len()
}

// ImageLength returns the image length fixed by the first Learn, or 0 if
// nothing has been learned.
func (r *Reconstructor) ImageLength() int {
	return max(r.imageLen, 0)
}
