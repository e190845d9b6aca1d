package enumerate

import (
	"context"
	"sync"

	"github.com/okian/opteams/internal/domain/model"
	"github.com/okian/opteams/internal/domain/rules"
)

// Buffer between workers and the consumer so short bursts of emissions do
// not serialize the workers.
const parallelBuffer = 64

// startParallel partitions the depth-0 layer of the search tree across
// workers by first index modulo the worker count. Every deeper branch
// carries worker-local state only; the member list and suffix bounds are
// shared read-only. Workers run under a derived context so that Close can
// release them when the consumer abandons the iterator mid-sequence.
func (e *Enumerator) startParallel(ctx context.Context, members []member, b bounds, set rules.Set) *Iterator {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan model.Team, parallelBuffer)

	var wg sync.WaitGroup
	for w := 0; w < e.parallelism; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			it := newIterator(members, b, set, e.parallelism, offset)
			for {
				team, ok := it.advance(ctx)
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- team:
				}
			}
		}(w)
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()

	return &Iterator{teams: out, cancel: cancel}
}
