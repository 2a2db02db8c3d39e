package domain

import "errors"

var (
	// ErrResultNotFound is returned when no result is stored under an id.
	ErrResultNotFound = errors.New("results not found")
	// ErrCatalogNotFound indicates the question catalog could not be loaded.
	ErrCatalogNotFound = errors.New("question catalog not found")
	// ErrInvalidCatalog indicates catalog content violates its invariants.
	ErrInvalidCatalog = errors.New("invalid question catalog")
)
