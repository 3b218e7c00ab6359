package ggboard

import "errors"

// Sentinel errors for the ggboard package.
var (
	// ErrInvalidViewport is returned when a viewport has a non-positive
	// width, height or scale.
	ErrInvalidViewport = errors.New("ggboard: invalid viewport")

	// ErrTextEntryClosed is returned when text is committed without an
	// open text entry.
	ErrTextEntryClosed = errors.New("ggboard: no open text entry")

	// ErrSessionActive is returned when the assessment is requested before
	// the session clock has expired.
	ErrSessionActive = errors.New("ggboard: session still active")

	// ErrInvalidColor is returned when a colour string cannot be parsed.
	ErrInvalidColor = errors.New("ggboard: invalid color")

	// ErrNoStore is returned when an operation needs the external store
	// and the board was built without one.
	ErrNoStore = errors.New("ggboard: no store configured")
)
