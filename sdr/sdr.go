package sdr

import (
	"fmt"
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/sdrecon/model"
)

// SDR is a set of active indices.
//
// An SDR is not safe for concurrent mutation. Concurrent reads (Overlap,
// Contains, iteration) are safe while no goroutine mutates it.
type SDR struct {
	rb *roaring.Bitmap
}

// New creates an SDR holding the given indices. Duplicates collapse.
func New(indices ...uint32) *SDR {
	return &SDR{rb: roaring.BitmapOf(indices...)}
}

// FromInts creates an SDR from signed indices, as produced by most encoders.
// Returns ErrInvalidArgument if any index is negative or exceeds the uint32 range.
func FromInts(indices []int) (*SDR, error) {
	rb := roaring.New()
	for _, i := range indices {
		if i < 0 || uint64(i) > uint64(^uint32(0)) {
			return nil, fmt.Errorf("%w: sdr index %d out of range", model.ErrInvalidArgument, i)
		}
		rb.Add(uint32(i))
	}
	return &SDR{rb: rb}, nil
}

// Add adds an index to the SDR.
func (s *SDR) Add(i uint32) {
	s.rb.Add(i)
}

// Contains reports whether index i is active.
func (s *SDR) Contains(i uint32) bool {
	if s == nil {
		return false
	}
	return s.rb.Contains(i)
}

// Cardinality returns the number of active indices.
func (s *SDR) Cardinality() uint64 {
	if s == nil {
		return 0
	}
	return s.rb.GetCardinality()
}

// IsEmpty returns true if no index is active.
func (s *SDR) IsEmpty() bool {
	return s == nil || s.rb.IsEmpty()
}

// Clone returns a deep copy of the SDR. Cloning nil yields an empty SDR.
func (s *SDR) Clone() *SDR {
	if s == nil {
		return New()
	}
	return &SDR{rb: s.rb.Clone()}
}

// ToArray returns the active indices in ascending order.
func (s *SDR) ToArray() []uint32 {
	if s == nil {
		return nil
	}
	return s.rb.ToArray()
}

// All returns an iterator over the active indices in ascending order.
func (s *SDR) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		if s == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Equal reports whether both SDRs hold the same indices.
func (s *SDR) Equal(other *SDR) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.rb.Equals(other.rb)
}

// String renders the SDR as a comma-separated index list.
func (s *SDR) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for i := range s.All() {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&sb, "%d", i)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Overlap returns |a ∩ b|. A nil SDR is treated as empty.
func Overlap(a, b *SDR) uint64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	return a.rb.AndCardinality(b.rb)
}
