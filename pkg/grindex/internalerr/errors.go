package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRange     = errors.New("invalid range")
	ErrShapeMismatch    = errors.New("compound setting shape mismatch")
	ErrOutOfRange       = errors.New("target outside grinder range")
	ErrUnusableDocument = errors.New("unusable document")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
