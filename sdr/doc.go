// Package sdr provides the Sparse Distributed Representation type.
//
// An SDR is a set of active indices out of a much larger index space. Order
// is irrelevant and each index is present at most once. The set is backed by
// a Roaring bitmap, so overlap (the size of the intersection) is computed
// without materializing the intersection.
//
//	a := sdr.New(1, 2, 3)
//	b := sdr.New(3, 4, 5)
//	sdr.Overlap(a, b) // 1
package sdr
