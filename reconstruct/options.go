package reconstruct

import (
	"fmt"
	"math"

	"github.com/hupe1980/sdrecon/model"
)

const (
	// DefaultWeightExponent squares overlaps in the numerator to emphasize strong matches.
	DefaultWeightExponent = 2.0

	// DefaultNormExponent sums raw overlaps in the denominator.
	DefaultNormExponent = 1.0

	// DefaultThreshold is the minimum weighted average for an active pixel.
	DefaultThreshold = 0.5
)

type options struct {
	weightExponent float64
	normExponent   float64
	threshold      float64
}

func defaultOptions() options {
	return options{
		weightExponent: DefaultWeightExponent,
		normExponent:   DefaultNormExponent,
		threshold:      DefaultThreshold,
	}
}

func (o options) validate() error {
	if !finite(o.weightExponent) || o.weightExponent < 0 {
		return fmt.Errorf("%w: weight exponent %v", model.ErrInvalidArgument, o.weightExponent)
	}
	if !finite(o.normExponent) || o.normExponent < 0 {
		return fmt.Errorf("%w: norm exponent %v", model.ErrInvalidArgument, o.normExponent)
	}
	if !finite(o.threshold) {
		return fmt.Errorf("%w: threshold %v", model.ErrInvalidArgument, o.threshold)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Option configures a Reconstructor.
type Option func(*options)

// WithWeightExponent sets the exponent applied to each overlap when
// weighting pixels in the numerator.
func WithWeightExponent(e float64) Option {
	return func(o *options) {
		o.weightExponent = e
	}
}

// WithNormExponent sets the exponent applied to each overlap when summing
// the total weight in the denominator.
func WithNormExponent(e float64) Option {
	return func(o *options) {
		o.normExponent = e
	}
}

// WithThreshold sets the activation threshold for the weighted average.
func WithThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}
