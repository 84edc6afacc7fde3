// Package cluster groups items whose fingerprints are transitively within
// a Hamming-distance threshold of each other.
//
// Membership is defined by the transitive closure of the pairwise relation
// "distance <= threshold": two items can share a group even though their
// direct distance exceeds the threshold, as long as a connecting chain
// exists. The scan is exhaustive over all unordered pairs, O(n²) distance
// evaluations; callers with more than a few thousand items should shard or
// pre-bucket before calling Cluster.
package cluster

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/imagedup/fingerprint"
	"github.com/hupe1980/imagedup/internal/disjointset"
)

// Item pairs a caller-supplied record with its fingerprint. Records must
// be unique within one clustering run; the clusterer does not validate
// this.
type Item[T any] struct {
	Data        T
	Fingerprint fingerprint.Fingerprint
}

// Clusterer partitions fingerprints into connected groups. The zero value
// is not usable; construct with New.
type Clusterer struct {
	threshold int
	workers   int
}

// Option configures a Clusterer.
type Option func(*Clusterer)

// WithWorkers enables the parallel all-pairs scan with up to n concurrent
// workers. Values <= 1 keep the scan serial. Parallelism only affects
// throughput: matches are collected per row and unions are applied in
// ascending pair order after the scan, so the output is identical to the
// serial path.
func WithWorkers(n int) Option {
	return func(c *Clusterer) {
		c.workers = n
	}
}

// New creates a Clusterer for the given maximum Hamming distance. A
// negative threshold is a configuration error.
func New(threshold int, opts ...Option) (*Clusterer, error) {
	if threshold < 0 {
		return nil, &ErrInvalidThreshold{Threshold: threshold}
	}
	c := &Clusterer{threshold: threshold, workers: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Threshold returns the configured maximum Hamming distance.
func (c *Clusterer) Threshold() int { return c.threshold }

// Cluster partitions fps into groups of transitively connected indices.
// Only groups of size >= 2 are returned; an index with no neighbor within
// the threshold appears in no group. Within each group, indices are in
// ascending order; groups are ordered by their smallest index.
//
// With zero or one fingerprint the result is empty and no distances are
// evaluated. A width mismatch between any pair aborts the call with the
// underlying fingerprint error.
func (c *Clusterer) Cluster(ctx context.Context, fps []fingerprint.Fingerprint) ([][]int, error) {
	n := len(fps)
	if n < 2 {
		return nil, nil
	}

	forest := disjointset.New(n)

	if c.workers > 1 {
		if err := c.scanParallel(ctx, fps, forest); err != nil {
			return nil, err
		}
	} else {
		if err := c.scanSerial(ctx, fps, forest); err != nil {
			return nil, err
		}
	}

	var groups [][]int
	for _, g := range forest.Groups() {
		if len(g) >= 2 {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func (c *Clusterer) scanSerial(ctx context.Context, fps []fingerprint.Fingerprint, forest *disjointset.Forest) error {
	for i := 0; i < len(fps); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j := i + 1; j < len(fps); j++ {
			d, err := fingerprint.Distance(fps[i], fps[j])
			if err != nil {
				return err
			}
			if d <= c.threshold {
				if err := forest.Union(i, j); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// scanParallel fans the per-row distance computations out across workers.
// Each row i collects its matching columns j (ascending); unions happen
// only after every worker has finished, in ascending (i, j) order, which
// keeps the rank tie-break sequence identical to the serial scan.
func (c *Clusterer) scanParallel(ctx context.Context, fps []fingerprint.Fingerprint, forest *disjointset.Forest) error {
	matches := make([][]int, len(fps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i := 0; i < len(fps)-1; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < len(fps); j++ {
				d, err := fingerprint.Distance(fps[i], fps[j])
				if err != nil {
					return err
				}
				if d <= c.threshold {
					matches[i] = append(matches[i], j)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, row := range matches {
		for _, j := range row {
			if err := forest.Union(i, j); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cluster is the one-shot convenience form: it clusters the items'
// fingerprints and materializes the resulting groups in one call.
func Cluster[T any](ctx context.Context, items []Item[T], threshold int, opts ...Option) ([]Group[T], error) {
	c, err := New(threshold, opts...)
	if err != nil {
		return nil, err
	}

	fps := make([]fingerprint.Fingerprint, len(items))
	for i, it := range items {
		fps[i] = it.Fingerprint
	}

	groups, err := c.Cluster(ctx, fps)
	if err != nil {
		return nil, err
	}
	return Materialize(groups, items)
}
