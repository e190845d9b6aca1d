package app

import (
	"github.com/okian/opteams/internal/domain/rules"
	"github.com/okian/opteams/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRowReader sets the table reader used to load character rows.
func WithRowReader(r RowReader) Option {
	return func(s *Service) {
		if r != nil {
			s.reader = r
		}
	}
}

// WithRules sets the constraint configuration applied to every run.
func WithRules(set rules.Set) Option {
	return func(s *Service) {
		s.rules = set
	}
}

// WithReserveKeywords installs a keyword reserve predicate over the
// current rule set.
func WithReserveKeywords(keywords []string) Option {
	return func(s *Service) {
		s.rules.Reserve = rules.KeywordPredicate(keywords)
	}
}

// WithParallelism sets the number of search goroutines.
func WithParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
