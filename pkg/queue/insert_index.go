package queue

type insertKind int

const (
	// insertHasValue: the value is already queued.
	insertHasValue insertKind = iota
	// insertExtendFrom: the value is intervals[index].from-1.
	insertExtendFrom
	// insertExtendTo: the value is intervals[index].to+1.
	insertExtendTo
	// insertBridge: the value joins intervals[index] and intervals[index+1].
	insertBridge
	// insertNew: the value becomes a new interval at index.
	insertNew
)

type insertIndex struct {
	kind  insertKind
	index int
}

// classifyInsert locates where a single value goes on Enqueue. intervals
// must not be the empty placeholder.
func classifyInsert[T Value](intervals []Interval[T], v T) insertIndex {
	i := seek(intervals, v)
	if i < len(intervals) && intervals[i].Contains(v) {
		return insertIndex{kind: insertHasValue, index: i}
	}
	// intervals[i-1].to < v < intervals[i].from, so canEnqueue on either
	// neighbour only holds for exact adjacency.
	joinsPrev := i > 0 && intervals[i-1].canEnqueue(v)
	joinsNext := i < len(intervals) && intervals[i].canEnqueue(v)
	switch {
	case joinsPrev && joinsNext:
		return insertIndex{kind: insertBridge, index: i - 1}
	case joinsPrev:
		return insertIndex{kind: insertExtendTo, index: i - 1}
	case joinsNext:
		return insertIndex{kind: insertExtendFrom, index: i}
	default:
		return insertIndex{kind: insertNew, index: i}
	}
}
