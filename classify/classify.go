// Package classify implements an overlap-ranked k-nearest-neighbor classifier
// over SDRs.
//
// Neighbors are ranked by overlap with the query. Each of the top k neighbors
// adds overlap^VoteExponent (default 2) to the score of its label, and the
// label with the highest score wins. Exact score ties go to the label that
// appears first among the ranked neighbors.
package classify

import (
	"fmt"
	"math"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/sdr"
	"github.com/hupe1980/sdrecon/store"
)

// DefaultVoteExponent squares each neighbor's overlap before summing.
const DefaultVoteExponent = 2.0

type options struct {
	voteExponent float64
}

// Option configures a Classifier.
type Option func(*options)

// WithVoteExponent sets the exponent applied to each neighbor's overlap.
func WithVoteExponent(e float64) Option {
	return func(o *options) {
		o.voteExponent = e
	}
}

// Vote is the aggregated score of one label.
type Vote struct {
	Label model.Label
	Score float64
}

// Classifier stores (SDR, label) pairs.
//
// Train is not safe for concurrent use. Classify only reads.
type Classifier struct {
	opts options
	data *store.Store[model.Label]
}

// New creates an empty Classifier. It panics on an invalid option; use
// NewWithOptions to receive the error instead.
func New(optFns ...Option) *Classifier {
	c, err := NewWithOptions(optFns...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewWithOptions creates an empty Classifier and validates the options.
func NewWithOptions(optFns ...Option) (*Classifier, error) {
	opts := options{voteExponent: DefaultVoteExponent}
	for _, fn := range optFns {
		fn(&opts)
	}
	if math.IsNaN(opts.voteExponent) || math.IsInf(opts.voteExponent, 0) || opts.voteExponent < 0 {
		return nil, fmt.Errorf("%w: vote exponent %v", model.ErrInvalidArgument, opts.voteExponent)
	}
	return &Classifier{
		opts: opts,
		data: store.New[model.Label](),
	}, nil
}

// Train stores a labeled SDR. Labels are not validated.
func (c *Classifier) Train(pattern *sdr.SDR, label model.Label) error {
	if pattern == nil {
		return fmt.Errorf("%w: sdr must not be nil", model.ErrInvalidArgument)
	}
	c.data.Append(model.Key(c.data.Len()), pattern, label)
	return nil
}

// Votes returns the per-label scores of the top k neighbors of query, in the
// order each label first appears among the ranked neighbors.
func (c *Classifier) Votes(query *sdr.SDR, k int) ([]Vote, error) {
	if k < 1 {
		return nil, model.ErrInvalidK
	}
	if c.data.Len() == 0 {
		return nil, model.ErrEmptyStore
	}

	ranked := c.data.Rank(query, k)
	votes := make([]Vote, 0, len(ranked))
	pos := make(map[model.Label]int, len(ranked))
	for _, rk := range ranked {
		score := math.Pow(float64(rk.Overlap), c.opts.voteExponent)
		label := rk.Example.Payload
		if i, ok := pos[label]; ok {
			votes[i].Score += score
			continue
		}
		pos[label] = len(votes)
		votes = append(votes, Vote{Label: label, Score: score})
	}
	return votes, nil
}

// Classify returns the label with the highest aggregated score among the top
// k neighbors of query.
func (c *Classifier) Classify(query *sdr.SDR, k int) (model.Label, error) {
	votes, err := c.Votes(query, k)
	if err != nil {
		return 0, err
	}

	best := votes[0]
	for _, v := range votes[1:] {
		if v.Score > best.Score {
			best = v
		}
	}
	return best.Label, nil
}

// Len returns the number of training pairs.
func (c *Classifier) Len() int {
	return c.data.Len()
}
