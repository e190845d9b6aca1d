// Package app wires the table reader, catalog, and enumerator into the
// single team-building operation exposed to callers.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/okian/opteams/internal/adapters/tabular"
	"github.com/okian/opteams/internal/domain/catalog"
	"github.com/okian/opteams/internal/domain/enumerate"
	"github.com/okian/opteams/internal/domain/model"
	"github.com/okian/opteams/internal/domain/rules"
	"github.com/okian/opteams/pkg/logger"
	"github.com/okian/opteams/pkg/metrics"
)

// RowReader supplies raw character rows from some storage format. The core
// only cares about the row shape, not the format.
type RowReader interface {
	Read(src io.Reader) ([]catalog.RawRow, error)
}

// Service runs team enumerations end to end: rows in, valid teams out.
type Service struct {
	reader      RowReader
	rules       rules.Set
	parallelism int
	logger      logger.Logger
}

// RunResult is the outcome of one enumeration run. Teams are always
// returned in memory; persisting them is the caller's decision.
type RunResult struct {
	RunID       string
	PrimaryStat string
	Teams       []model.Team
	CatalogSize int
	Duration    time.Duration
}

// New creates a service with configuration options.
func New(opts ...Option) *Service {
	s := &Service{
		reader:      &tabular.CSVReader{},
		rules:       rules.Defaults(""),
		parallelism: 1,
		logger:      logger.Get().Named("teams"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// BuildTeams reads character rows from source and enumerates every team
// valid under the service's rules for the given primary stat. Data and
// configuration errors surface before any search starts; an empty team
// list is a valid, non-error outcome.
func (s *Service) BuildTeams(ctx context.Context, source io.Reader, primaryStat string) (*RunResult, error) {
	runID := uuid.New().String()
	start := time.Now()

	rows, err := s.reader.Read(source)
	if err != nil {
		metrics.RecordLoadError("read")
		return nil, fmt.Errorf("reading character table: %w", err)
	}

	cat, err := catalog.New(rows)
	if err != nil {
		metrics.RecordLoadError(loadErrorKind(err))
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	metrics.RecordCatalogLoad(cat.Len())
	metrics.RecordRecordsLoaded(cat.Len())

	set := s.rules
	if primaryStat != "" {
		set.PrimaryStat = primaryStat
	}

	s.logger.Info(ctx, "starting run",
		logger.String("run_id", runID),
		logger.String("primary_stat", set.PrimaryStat),
		logger.Int("catalog_size", cat.Len()),
	)
	metrics.RecordRunStarted()

	enumerator := enumerate.New(
		enumerate.WithParallelism(s.parallelism),
		enumerate.WithLogger(s.logger.Named("enumerate")),
	)
	it, err := enumerator.Enumerate(ctx, cat, set)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	defer it.Close()

	var teams []model.Team
	for {
		team, ok := it.Next(ctx)
		if !ok {
			break
		}
		teams = append(teams, team)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s interrupted: %w", runID, err)
	}

	elapsed := time.Since(start)
	metrics.RecordEnumerationDuration(elapsed.Seconds())

	s.logger.Info(ctx, "run complete",
		logger.String("run_id", runID),
		logger.Int("teams", len(teams)),
		logger.String("elapsed", elapsed.String()),
	)

	return &RunResult{
		RunID:       runID,
		PrimaryStat: set.PrimaryStat,
		Teams:       teams,
		CatalogSize: cat.Len(),
		Duration:    elapsed,
	}, nil
}

// loadErrorKind maps catalog errors onto metric labels.
func loadErrorKind(err error) string {
	switch {
	case errors.Is(err, catalog.ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, catalog.ErrDuplicateName):
		return "duplicate_name"
	default:
		return "other"
	}
}
