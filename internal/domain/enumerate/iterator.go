package enumerate

import (
	"context"

	"github.com/okian/opteams/internal/domain/model"
	"github.com/okian/opteams/internal/domain/rules"
	"github.com/okian/opteams/pkg/metrics"
)

// member is one catalog record with its search-relevant facts resolved.
type member struct {
	rec      *model.Character
	value    int // primary-stat value
	power    int // four-stat power total
	high     bool
	tiered   bool // high or mid tier
	eligible bool
}

// bounds holds suffix totals over the member list. bounds.sum[i] is the
// primary-stat sum of members[i:], and so on; these cap what any extension
// of a partial subset can still contribute.
type bounds struct {
	sum      []int
	high     []int
	tiered   []int
	eligible []int
}

// Iterator walks the subset search tree lazily. A single Iterator is not
// safe for concurrent use; in parallel mode each goroutine owns its own.
type Iterator struct {
	members []member
	bounds  bounds

	target      int
	minHigh     int
	minTiered   int // high-tier plus mid-tier minimum combined
	maxSize     int
	maxCombined int // 0 disables the combined power cap

	// Partial-subset state. chosen holds ascending catalog indices.
	chosen   []int
	sum      int
	high     int
	tiered   int
	eligible int
	combined int
	next     int
	done     bool

	// First-index partitioning for parallel workers. A worker only opens
	// depth-0 branches where index%stride == offset.
	stride int
	offset int

	// Fan-in channel and worker cancellation when the search runs in
	// parallel mode.
	teams  <-chan model.Team
	cancel context.CancelFunc
}

func newIterator(members []member, b bounds, set rules.Set, stride, offset int) *Iterator {
	return &Iterator{
		members:     members,
		bounds:      b,
		target:      set.TargetTotal,
		minHigh:     set.MinHighTier,
		minTiered:   set.MinHighTier + set.MinMidTier,
		maxSize:     set.MaxTeamSize,
		maxCombined: set.MaxCombinedTotal,
		chosen:      make([]int, 0, set.MaxTeamSize),
		stride:      stride,
		offset:      offset,
	}
}

// Next produces the next valid team. The second return is false once the
// search is exhausted, the iterator is closed, or ctx is cancelled.
func (it *Iterator) Next(ctx context.Context) (model.Team, bool) {
	if it.done {
		return model.Team{}, false
	}
	if it.teams != nil {
		select {
		case <-ctx.Done():
			return model.Team{}, false
		case team, ok := <-it.teams:
			return team, ok
		}
	}
	return it.advance(ctx)
}

// Close releases the search. In parallel mode it stops the worker
// goroutines, so a consumer abandoning the sequence before exhaustion must
// call it; a serial iterator is simply marked exhausted. Close is safe to
// call after the sequence has been fully consumed.
func (it *Iterator) Close() {
	if it.cancel != nil {
		it.cancel()
	}
	it.done = true
}

// advance resumes the depth-first search from its internal state and runs
// until the next emission or exhaustion.
func (it *Iterator) advance(ctx context.Context) (model.Team, bool) {
	if it.done {
		return model.Team{}, false
	}

	for {
		if ctx.Err() != nil {
			it.done = true
			return model.Team{}, false
		}

		// Abandon the whole subtree when no extension can reach the target
		// sum, the tier minimums, or reserve eligibility.
		if it.next < len(it.members) && it.infeasible() {
			metrics.RecordBranchPruned()
			it.next = len(it.members)
		}

		if it.next >= len(it.members) {
			if len(it.chosen) == 0 {
				it.done = true
				return model.Team{}, false
			}
			it.pop()
			continue
		}

		i := it.next
		it.next++

		if len(it.chosen) == 0 && it.stride > 1 && i%it.stride != it.offset {
			continue // depth-0 branch owned by another worker
		}

		if !it.fits(&it.members[i]) {
			metrics.RecordBranchPruned()
			continue
		}

		it.push(i)

		if it.sum == it.target {
			if team, ok := it.candidate(); ok {
				metrics.RecordTeamEmitted()
				return team, true
			}
			metrics.RecordCandidateRejected()
		}
	}
}

// fits reports whether adding m keeps the partial subset viable. Sums are
// monotonically non-decreasing as members are added, so exceeding the
// target or the combined cap can never recover.
func (it *Iterator) fits(m *member) bool {
	if len(it.chosen) >= it.maxSize {
		return false
	}
	if it.sum+m.value > it.target {
		return false
	}
	if it.maxCombined > 0 && it.combined+m.power > it.maxCombined {
		return false
	}
	return true
}

// infeasible reports whether the remaining uncommitted records cannot
// possibly complete the current partial subset.
func (it *Iterator) infeasible() bool {
	rest := it.next
	if it.sum+it.bounds.sum[rest] < it.target {
		return true
	}
	if it.high+it.bounds.high[rest] < it.minHigh {
		return true
	}
	if it.tiered+it.bounds.tiered[rest] < it.minTiered {
		return true
	}
	if it.eligible == 0 && it.bounds.eligible[rest] == 0 {
		return true
	}
	return false
}

func (it *Iterator) push(i int) {
	m := &it.members[i]
	it.chosen = append(it.chosen, i)
	it.sum += m.value
	it.combined += m.power
	it.high += boolToInt(m.high)
	it.tiered += boolToInt(m.tiered)
	it.eligible += boolToInt(m.eligible)
}

// pop backtracks one level and resumes the parent at the next index.
func (it *Iterator) pop() {
	i := it.chosen[len(it.chosen)-1]
	it.chosen = it.chosen[:len(it.chosen)-1]
	m := &it.members[i]
	it.sum -= m.value
	it.combined -= m.power
	it.high -= boolToInt(m.high)
	it.tiered -= boolToInt(m.tiered)
	it.eligible -= boolToInt(m.eligible)
	it.next = i + 1
}

// candidate validates the full predicate set for an exact-sum subset. A
// subset that matches the sum but fails a predicate is a distinct failed
// candidate, not a partial match.
func (it *Iterator) candidate() (model.Team, bool) {
	if it.high < it.minHigh {
		return model.Team{}, false
	}
	if it.tiered < it.minTiered {
		return model.Team{}, false
	}
	if it.eligible == 0 {
		return model.Team{}, false
	}

	team := model.Team{
		Members: make([]*model.Character, len(it.chosen)),
		Total:   it.sum,
	}
	for idx, i := range it.chosen {
		team.Members[idx] = it.members[i].rec
	}
	return team, true
}
