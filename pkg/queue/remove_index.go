package queue

type removeKind int

const (
	// removeNoValue: the value is not queued.
	removeNoValue removeKind = iota
	// removeWhole: the value is the only member of intervals[index].
	removeWhole
	// removeIncFrom: the value is intervals[index].from.
	removeIncFrom
	// removeDecTo: the value is intervals[index].to.
	removeDecTo
	// removeSplitAt: the value is strictly inside intervals[index].
	removeSplitAt
)

type removeIndex struct {
	kind  removeKind
	index int
}

// classifyRemove locates the interval holding v. intervals must not be the
// empty placeholder.
func classifyRemove[T Value](intervals []Interval[T], v T) removeIndex {
	i := seek(intervals, v)
	if i == len(intervals) || !intervals[i].Contains(v) {
		return removeIndex{kind: removeNoValue}
	}
	r := intervals[i]
	switch {
	case r.from == v && r.to == v:
		return removeIndex{kind: removeWhole, index: i}
	case r.from == v:
		return removeIndex{kind: removeIncFrom, index: i}
	case r.to == v:
		return removeIndex{kind: removeDecTo, index: i}
	default:
		return removeIndex{kind: removeSplitAt, index: i}
	}
}
