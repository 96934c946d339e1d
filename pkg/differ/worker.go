package differ

import (
	"context"
	"sync"

	"github.com/sdejongh/dircmp/pkg/compare"
)

// fileOutcome is the result of comparing one file pair
type fileOutcome struct {
	rel        string
	comparison *compare.Comparison
	err        error
}

// compareAll compares the file pairs at rels with at most maxWorkers
// comparisons in flight. Outcomes are returned in input order.
func (r *run) compareAll(ctx context.Context, rels []string) []fileOutcome {
	outcomes := make([]fileOutcome, len(rels))

	if r.maxWorkers <= 1 || len(rels) <= 1 {
		for i, rel := range rels {
			comparison, err := r.comparator.Compare(ctx, r.left, r.right, rel, rel)
			outcomes[i] = fileOutcome{rel: rel, comparison: comparison, err: err}
		}
		return outcomes
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.maxWorkers)

	for i, rel := range rels {
		// Acquire semaphore
		select {
		case <-ctx.Done():
			outcomes[i] = fileOutcome{rel: rel, err: ctx.Err()}
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release semaphore

			comparison, err := r.comparator.Compare(ctx, r.left, r.right, rel, rel)
			outcomes[i] = fileOutcome{rel: rel, comparison: comparison, err: err}
		}(i, rel)
	}

	wg.Wait()
	return outcomes
}
