package catalog

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrMalformedRecord indicates a source row with a missing, non-numeric,
	// or negative stat value. The whole load is aborted.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDuplicateName indicates two rows sharing a character name.
	ErrDuplicateName = errors.New("duplicate character name")

	// ErrUnknownStat indicates a stat name outside the recognized set.
	ErrUnknownStat = errors.New("unknown stat")
)
