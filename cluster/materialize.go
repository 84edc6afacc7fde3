package cluster

// Group is a materialized duplicate group: a 1-based identifier assigned
// in emission order, the ordered member items, and the reference item.
// The reference is a presentation convention, always the first member in
// ascending original-index order; which member a consumer ultimately keeps
// is its own policy.
type Group[T any] struct {
	ID        int
	Members   []Item[T]
	Reference Item[T]
}

// Materialize maps index groups back to their items. Group IDs are
// assigned sequentially starting at 1, member order is preserved, and the
// reference is the first member of each group. An index outside the items
// range aborts with an ErrItemIndexOutOfRange; no partial result is
// returned.
func Materialize[T any](groups [][]int, items []Item[T]) ([]Group[T], error) {
	out := make([]Group[T], 0, len(groups))

	for _, idxs := range groups {
		if len(idxs) == 0 {
			continue
		}
		members := make([]Item[T], 0, len(idxs))
		for _, i := range idxs {
			if i < 0 || i >= len(items) {
				return nil, &ErrItemIndexOutOfRange{Index: i, Size: len(items)}
			}
			members = append(members, items[i])
		}
		out = append(out, Group[T]{
			ID:        len(out) + 1,
			Members:   members,
			Reference: members[0],
		})
	}
	return out, nil
}
