// Package store provides the append-only example store shared by the
// reconstructor and the classifier.
//
// A Store is parameterized over its payload: the reconstructor stores the
// original image, the classifier stores a label. Examples are immutable once
// appended and live as long as the store. Ranking is exact: every stored SDR
// is compared against the query, so cost is O(examples × query size).
package store

import (
	"github.com/hupe1980/sdrecon/internal/queue"
	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/sdr"
)

// Example is a learned example.
type Example[P any] struct {
	Key     model.Key
	SDR     *sdr.SDR
	Payload P
}

// Ranked pairs a stored example with its overlap against a query.
type Ranked[P any] struct {
	Example Example[P]
	Overlap uint64
}

// Store is an append-only collection of examples.
//
// A Store is not safe for concurrent Append. Concurrent Rank calls are safe
// while no goroutine appends.
type Store[P any] struct {
	examples []Example[P]
}

// New creates an empty store.
func New[P any]() *Store[P] {
	return &Store[P]{}
}

// Append stores a new example. The SDR is cloned so later caller mutations
// do not leak into the store.
func (s *Store[P]) Append(key model.Key, pattern *sdr.SDR, payload P) {
	s.examples = append(s.examples, Example[P]{
		Key:     key,
		SDR:     pattern.Clone(),
		Payload: payload,
	})
}

// Len returns the number of stored examples.
func (s *Store[P]) Len() int {
	return len(s.examples)
}

// At returns the i-th example in insertion order.
func (s *Store[P]) At(i int) Example[P] {
	return s.examples[i]
}

// Rank returns the min(k, Len()) examples with the highest overlap against
// query, best first. Examples with equal overlap keep their insertion order.
func (s *Store[P]) Rank(query *sdr.SDR, k int) []Ranked[P] {
	n := min(k, len(s.examples))
	if n <= 0 {
		return nil
	}

	pq := queue.New(n)
	for i, ex := range s.examples {
		pq.PushItemBounded(queue.PriorityQueueItem{
			Seq:   uint32(i),
			Score: sdr.Overlap(query, ex.SDR),
		}, n)
	}

	items := pq.Drain()
	ranked := make([]Ranked[P], len(items))
	for i, item := range items {
		ranked[i] = Ranked[P]{
			Example: s.examples[item.Seq],
			Overlap: item.Score,
		}
	}
	return ranked
}
