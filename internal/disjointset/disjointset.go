// Package disjointset implements an array-backed disjoint-set forest
// (union-find) over integer indices, with path compression and union by
// rank. It is the clustering substrate: indices whose fingerprints fall
// within the distance threshold are unioned, and Groups extracts the
// resulting partition in a deterministic order.
package disjointset

import "fmt"

// ErrIndexOutOfRange indicates an index outside [0, Size) passed to Find
// or Union.
type ErrIndexOutOfRange struct {
	Index int
	Size  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("disjointset: index %d out of range [0,%d)", e.Index, e.Size)
}

// Forest maintains a partition of the indices 0..n-1 into disjoint sets.
// A Forest is created fresh per clustering run and is not safe for
// concurrent mutation.
type Forest struct {
	parent []int
	rank   []int
}

// New creates a forest of n singleton sets, each index its own root with
// rank 0.
func New(n int) *Forest {
	f := &Forest{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range f.parent {
		f.parent[i] = i
	}
	return f
}

// Len returns the number of indices in the forest.
func (f *Forest) Len() int { return len(f.parent) }

func (f *Forest) check(i int) error {
	if i < 0 || i >= len(f.parent) {
		return &ErrIndexOutOfRange{Index: i, Size: len(f.parent)}
	}
	return nil
}

// find locates the root of i and compresses the path: every node visited
// on the way is re-pointed directly at the root.
func (f *Forest) find(i int) int {
	root := i
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for f.parent[i] != root {
		f.parent[i], i = root, f.parent[i]
	}
	return root
}

// Find returns the representative of i's set.
func (f *Forest) Find(i int) (int, error) {
	if err := f.check(i); err != nil {
		return 0, err
	}
	return f.find(i), nil
}

// Union merges the sets containing a and b. It is a no-op if they already
// share a root. The lower-rank root is attached under the higher-rank one;
// on equal rank, b's root is attached under a's root and a's root's rank
// is incremented. The tie-break is fixed so that output ordering is
// reproducible for identical input order.
func (f *Forest) Union(a, b int) error {
	if err := f.check(a); err != nil {
		return err
	}
	if err := f.check(b); err != nil {
		return err
	}

	rootA, rootB := f.find(a), f.find(b)
	if rootA == rootB {
		return nil
	}

	switch {
	case f.rank[rootA] < f.rank[rootB]:
		f.parent[rootA] = rootB
	case f.rank[rootA] > f.rank[rootB]:
		f.parent[rootB] = rootA
	default:
		f.parent[rootB] = rootA
		f.rank[rootA]++
	}
	return nil
}

// Groups returns the current partition as ordered member lists. Indices
// are scanned in ascending order and appended to their root's bucket, so
// members within a group appear in ascending original-index order and
// groups appear in the order their root was first seen.
func (f *Forest) Groups() [][]int {
	var groups [][]int
	bucket := make(map[int]int, len(f.parent)) // root -> position in groups
	for i := range f.parent {
		root := f.find(i)
		pos, ok := bucket[root]
		if !ok {
			pos = len(groups)
			bucket[root] = pos
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], i)
	}
	return groups
}
