package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/sdrecon/sdr"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// SDR returns a random SDR with exactly active distinct indices in [0, universe).
// active is clamped to universe.
func (r *RNG) SDR(universe, active int) *sdr.SDR {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sdr.New(r.indicesLocked(universe, active)...)
}

func (r *RNG) indicesLocked(universe, active int) []uint32 {
	active = min(active, universe)
	perm := r.rand.Perm(universe)[:active]
	out := make([]uint32, active)
	for i, v := range perm {
		out[i] = uint32(v)
	}
	return out
}

// BinaryImage returns n pixels that are 1 with probability density.
func (r *RNG) BinaryImage(n int, density float64) []uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	img := make([]uint8, n)
	for i := range img {
		if r.rand.Float64() < density {
			img[i] = 1
		}
	}
	return img
}

// FlipBits returns a copy of image where each binary pixel is inverted with
// probability p.
func (r *RNG) FlipBits(image []uint8, p float64) []uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(image)
	for i := range out {
		if r.rand.Float64() < p {
			out[i] ^= 1
		}
	}
	return out
}

// PerturbSDR returns a copy of s where each active index is replaced by a
// random index in [0, universe) with probability p.
func (r *RNG) PerturbSDR(s *sdr.SDR, universe int, p float64) *sdr.SDR {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := sdr.New()
	for i := range s.All() {
		if r.rand.Float64() < p {
			out.Add(uint32(r.rand.Intn(universe)))
			continue
		}
		out.Add(i)
	}
	return out
}

// Prototype is a labeled (SDR, image) pair.
type Prototype struct {
	Label int
	SDR   *sdr.SDR
	Image []uint8
}

// Prototypes generates one random prototype per label 0..labels-1 with
// images of imageLen pixels (density 0.3) and SDRs of active indices out of
// universe.
func (r *RNG) Prototypes(labels, imageLen, universe, active int) []Prototype {
	out := make([]Prototype, labels)
	for l := range labels {
		out[l] = Prototype{
			Label: l,
			SDR:   r.SDR(universe, active),
			Image: r.BinaryImage(imageLen, 0.3),
		}
	}
	return out
}
