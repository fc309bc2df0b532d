package extract

import "errors"

var (
	// ErrUnreadable is returned when a supported document file cannot be
	// opened or read at all. Parse-level failures degrade to sentinel text
	// instead and never surface as errors.
	ErrUnreadable = errors.New("document file unreadable")
)
