package store

import (
	"testing"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/sdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	s := New[string]()
	s.Append(1, sdr.New(1, 2, 3), "a")
	s.Append(2, sdr.New(3, 4, 5), "b")
	s.Append(3, sdr.New(1, 2, 4), "c")

	ranked := s.Rank(sdr.New(1, 2, 3), 2)

	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].Example.Payload)
	assert.Equal(t, uint64(3), ranked[0].Overlap)
	assert.Equal(t, "c", ranked[1].Example.Payload)
	assert.Equal(t, uint64(2), ranked[1].Overlap)
}

func TestRankStableTies(t *testing.T) {
	s := New[int]()
	for i := range 6 {
		s.Append(model.Key(i), sdr.New(7), i)
	}
	s.Append(99, sdr.New(7, 8), 99)

	ranked := s.Rank(sdr.New(7, 8), 4)

	require.Len(t, ranked, 4)
	assert.Equal(t, 99, ranked[0].Example.Payload)
	assert.Equal(t, []int{0, 1, 2}, []int{
		ranked[1].Example.Payload,
		ranked[2].Example.Payload,
		ranked[3].Example.Payload,
	})
}

func TestRankBounds(t *testing.T) {
	s := New[int]()
	assert.Empty(t, s.Rank(sdr.New(1), 3))

	s.Append(1, sdr.New(1), 1)
	assert.Len(t, s.Rank(sdr.New(1), 10), 1)
	assert.Empty(t, s.Rank(sdr.New(1), 0))
	assert.Len(t, s.Rank(nil, 1), 1)
}

func TestAppendClonesSDR(t *testing.T) {
	s := New[int]()
	pattern := sdr.New(1)
	s.Append(5, pattern, 0)
	pattern.Add(2)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, model.Key(5), s.At(0).Key)
	assert.False(t, s.At(0).SDR.Contains(2))
}
