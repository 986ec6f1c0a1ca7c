package report

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// collect calls fn for every item with at most limit calls in flight and
// returns the results in input order. The first error cancels the rest.
func collect[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			// each goroutine owns one slot
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// distinct returns the ids of all groups in first-seen order, without repeats.
func distinct(groups [][]int64) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	for _, ids := range groups {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
