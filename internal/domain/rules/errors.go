package rules

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidRuleSet indicates an unusable constraint configuration.
	// Raised before any search starts.
	ErrInvalidRuleSet = errors.New("invalid rule set")
)
