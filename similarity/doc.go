// Package similarity provides scoring primitives for comparing pixel vectors.
//
// All functions accept any numeric element type and fail with an error
// matching model.ErrInvalidArgument when the lengths of their inputs do not
// agree. Degenerate inputs are not errors: an all-zero vector has cosine
// similarity 0 with everything, itself included.
//
// # Usage
//
//	conf, err := similarity.CosineSimilarity(truth, reconstructed)
//	agree, err := similarity.BinaryAgreement(truth, reconstructed)
//	text, err := similarity.ToSquareMatrixText(reconstructed, 28)
package similarity
