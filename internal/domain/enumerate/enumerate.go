// Package enumerate implements the constrained combinatorial search that
// produces every valid team from a catalog. Subsets are explored depth-first
// with a strictly increasing index cursor over the catalog's stable order,
// so each member set is visited exactly once and {A,B} and {B,A} are never
// both emitted.
package enumerate

import (
	"context"

	"github.com/okian/opteams/internal/domain/catalog"
	"github.com/okian/opteams/internal/domain/model"
	"github.com/okian/opteams/internal/domain/rules"
	"github.com/okian/opteams/pkg/logger"
)

// Enumerator runs team enumerations. It holds no state across calls; each
// Enumerate builds a fresh search.
type Enumerator struct {
	parallelism int
	logger      logger.Logger
}

// New creates an enumerator with configuration options.
func New(opts ...Option) *Enumerator {
	e := &Enumerator{
		parallelism: 1,
		logger:      logger.Get().Named("enumerate"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enumerate validates the rule set and returns a lazy iterator over every
// valid team. The sequence is finite and not restartable; callers that stop
// pulling early truncate the search, and must Close the iterator to release
// its workers when abandoning a parallel sequence. With parallelism above
// one, branches of the search tree run on independent goroutines and result
// order is unspecified, which is acceptable since team identity is set
// equality.
func (e *Enumerator) Enumerate(ctx context.Context, cat *catalog.Catalog, set rules.Set) (*Iterator, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	stat, _ := model.NormalizeStat(set.PrimaryStat)
	members, b := precompute(cat, stat, set)

	e.logger.Debug(ctx, "starting enumeration",
		logger.String("primary_stat", string(stat)),
		logger.Int("catalog_size", cat.Len()),
		logger.Int("target_total", set.TargetTotal),
		logger.Int("parallelism", e.parallelism),
	)

	if e.parallelism > 1 {
		return e.startParallel(ctx, members, b, set), nil
	}
	return newIterator(members, b, set, 1, 0), nil
}

// precompute resolves each record's primary-stat value, tier membership,
// and reserve eligibility, plus the suffix bounds used by the prunes.
func precompute(cat *catalog.Catalog, stat model.StatName, set rules.Set) ([]member, bounds) {
	pred := set.ReservePredicate()

	members := make([]member, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		rec := cat.Record(i)
		value, _ := rec.Stat(stat)
		members[i] = member{
			rec:      rec,
			value:    value,
			power:    rec.PowerTotal(),
			high:     value == set.HighTierValue,
			tiered:   value == set.HighTierValue || value == set.MidTierValue,
			eligible: pred(rec.Special),
		}
	}

	// Suffix totals over members[i:]; index len(members) is the empty tail.
	n := len(members)
	b := bounds{
		sum:      make([]int, n+1),
		high:     make([]int, n+1),
		tiered:   make([]int, n+1),
		eligible: make([]int, n+1),
	}
	for i := n - 1; i >= 0; i-- {
		b.sum[i] = b.sum[i+1] + members[i].value
		b.high[i] = b.high[i+1] + boolToInt(members[i].high)
		b.tiered[i] = b.tiered[i+1] + boolToInt(members[i].tiered)
		b.eligible[i] = b.eligible[i+1] + boolToInt(members[i].eligible)
	}

	return members, b
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
