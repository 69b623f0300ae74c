package queue

import (
	"fmt"
	"sort"
)

// positionKind tags where a range endpoint falls relative to the intervals.
type positionKind int

const (
	// posExact: the endpoint is inside intervals[index].
	posExact positionKind = iota
	// posJoinFrom: the endpoint is intervals[index].from-1.
	posJoinFrom
	// posJoinTo: the endpoint is intervals[index].to+1.
	posJoinTo
	// posFirst: the endpoint is before intervals[0] with a gap.
	posFirst
	// posLast: the endpoint is after the last interval with a gap.
	posLast
	// posBetween: the endpoint is in the gap between intervals[left] and
	// intervals[right] and touches neither.
	posBetween
	// posMerge: the endpoint is the single missing value between
	// intervals[index] and intervals[index+1].
	posMerge
)

var positionKindNames = [...]string{
	posExact:    "Exact",
	posJoinFrom: "JoinToIndexFrom",
	posJoinTo:   "JoinToIndexTo",
	posFirst:    "First",
	posLast:     "Last",
	posBetween:  "Between",
	posMerge:    "MergeIntervals",
}

func (k positionKind) String() string {
	if int(k) < len(positionKindNames) {
		return positionKindNames[k]
	}
	return fmt.Sprintf("positionKind(%d)", int(k))
}

// position is the classification of one range endpoint. index is set for
// Exact, JoinFrom, JoinTo and Merge; left and right for Between.
type position struct {
	kind  positionKind
	index int
	left  int
	right int
}

func (p position) String() string {
	switch p.kind {
	case posFirst, posLast:
		return p.kind.String()
	case posBetween:
		return fmt.Sprintf("Between(%d,%d)", p.left, p.right)
	default:
		return fmt.Sprintf("%s(%d)", p.kind, p.index)
	}
}

// seek returns the index of the first interval whose upper bound is >= v,
// or len(intervals) when v lies past all of them.
func seek[T Value](intervals []Interval[T], v T) int {
	return sort.Search(len(intervals), func(i int) bool { return intervals[i].to >= v })
}

// classify locates a single endpoint. An endpoint inside an interval is
// always Exact, never adjacent to it.
func classify[T Value](intervals []Interval[T], v T) position {
	if len(intervals) == 1 && intervals[0].IsEmpty() {
		if v < intervals[0].from {
			return position{kind: posFirst}
		}
		return position{kind: posLast}
	}

	i := seek(intervals, v)
	if i == len(intervals) {
		last := len(intervals) - 1
		if adjacent(intervals[last].to, v) {
			return position{kind: posJoinTo, index: last}
		}
		return position{kind: posLast}
	}

	cur := intervals[i]
	if cur.Contains(v) {
		return position{kind: posExact, index: i}
	}

	// v < cur.from from here on.
	joinsCur := adjacent(v, cur.from)
	if i == 0 {
		if joinsCur {
			return position{kind: posJoinFrom, index: 0}
		}
		return position{kind: posFirst}
	}

	joinsPrev := adjacent(intervals[i-1].to, v)
	switch {
	case joinsPrev && joinsCur:
		return position{kind: posMerge, index: i - 1}
	case joinsPrev:
		return position{kind: posJoinTo, index: i - 1}
	case joinsCur:
		return position{kind: posJoinFrom, index: i}
	default:
		return position{kind: posBetween, left: i - 1, right: i}
	}
}

// classifyRange classifies both endpoints of r against intervals. The index
// of the from position never exceeds the index of the to position.
func classifyRange[T Value](intervals []Interval[T], r Interval[T]) (position, position) {
	return classify(intervals, r.from), classify(intervals, r.to)
}
