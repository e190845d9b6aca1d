package enumerate

import (
	"github.com/okian/opteams/pkg/logger"
)

// Option applies a configuration option to the Enumerator.
type Option func(*Enumerator)

// WithParallelism fans the first-index layer of the search tree out across
// n goroutines. Values below 2 keep the single-threaded iterator.
func WithParallelism(n int) Option {
	return func(e *Enumerator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithLogger sets a custom logger for the enumerator.
func WithLogger(log logger.Logger) Option {
	return func(e *Enumerator) {
		if log != nil {
			e.logger = log
		}
	}
}
