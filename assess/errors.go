package assess

import "errors"

// Sentinel errors for the assess package.
var (
	// ErrEmptyCatalog is returned when a catalog has no items.
	ErrEmptyCatalog = errors.New("assess: empty catalog")

	// ErrInvalidCatalog is returned for missing or duplicate item ids.
	ErrInvalidCatalog = errors.New("assess: invalid catalog")

	// ErrUnknownItem is returned when affirming an id not in the catalog.
	ErrUnknownItem = errors.New("assess: unknown item")

	// ErrPledgeRequired is returned when affirming before the honor pledge
	// has been acknowledged.
	ErrPledgeRequired = errors.New("assess: honor pledge not acknowledged")

	// ErrFinalized is returned by any mutation after Submit.
	ErrFinalized = errors.New("assess: assessment already finalized")
)
