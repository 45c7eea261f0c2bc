package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrCatalogUnavailable means the commander dimension could not be fetched or is empty.
	// Reconciliation refuses to start without it.
	ErrCatalogUnavailable = errors.New("commander catalog unavailable")
	// ErrStore marks a storage failure. Batches are rolled back and never retried.
	ErrStore = errors.New("store failure")
)
