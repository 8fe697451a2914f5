// Package model defines core types used throughout sdrecon.
//
// # Identity Types
//
//   - Key: Opaque identifier attached to a learned reconstruction example (uint64)
//   - Label: Class label stored by the overlap classifier (int)
//
// # Data Types
//
//   - Reconstruction: A reconstructed pixel vector with an optional confidence
//   - SimilarityData: Per-sample similarity scores used in evaluation reports
//
// # Errors
//
// All packages report failures through the sentinels declared here so that
// callers can classify them with errors.Is:
//
//	if errors.Is(err, model.ErrInvalidState) {
//	    // train before querying
//	}
package model
