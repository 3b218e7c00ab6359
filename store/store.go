// Package store is the external progress store a board reads its initial
// snapshot from and writes results to.
//
// Values are encoded with deterministic CBOR, so the same logical value
// always produces the same bytes regardless of the backend.
package store

import (
	"context"
	"errors"
)

// Well-known keys written by a board.
const (
	// KeyWhiteboard holds the serialized surface snapshot (string).
	KeyWhiteboard = "whiteboardState"
	// KeyMissedChecklistItems holds the missed required ids ([]string).
	KeyMissedChecklistItems = "missedChecklistItems"
	// KeyBonusChecklistItems holds the affirmed bonus ids ([]string).
	KeyBonusChecklistItems = "bonusChecklistItems"
	// KeyChecklistComplete is set to true once the assessment is finalized.
	KeyChecklistComplete = "checklistComplete"
	// KeyAssessment holds the full assessment result.
	KeyAssessment = "checklistAssessment"
)

// Sentinel errors for the store package.
var (
	// ErrEmptyKey is returned for an empty key.
	ErrEmptyKey = errors.New("store: empty key")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store: closed")
)

// Store is a key-value store of encoded values.
type Store interface {
	// Load decodes the value stored under key into v. It reports false,
	// leaving v untouched, when the key is absent.
	Load(ctx context.Context, key string, v any) (bool, error)
	// Save encodes v and stores it under key, replacing any previous value.
	Save(ctx context.Context, key string, v any) error
}
