package queue

import "slices"

// RemoveRange removes every queued value of [from, to]. Intervals fully
// covered are dropped, partially covered ones are trimmed, and an interval
// holding the whole range is split in two. Nothing happens when from > to or
// the queue is empty.
func (r *Queue[T]) RemoveRange(from, to T) {
	r.removeRange(IntervalFrom(from, to))
}

func (r *Queue[T]) removeRange(rng Interval[T]) {
	if rng.IsEmpty() || r.IsEmpty() {
		return
	}

	fromPos, toPos := classifyRange(r.intervals, rng)
	lo, left, keepLeft := r.trimStart(fromPos, rng)
	hi, right, keepRight := r.trimEnd(toPos, rng)
	switch {
	case hi < lo-1:
		panic(errorf("remove range %s: positions %s/%s do not form a span in %v",
			rng, fromPos, toPos, r.intervals))
	case hi == lo-1:
		// rng lies in a gap
		return
	}

	survivors := make([]Interval[T], 0, 2)
	if keepLeft {
		survivors = append(survivors, left)
	}
	if keepRight {
		survivors = append(survivors, right)
	}
	if len(survivors) == 0 && hi-lo+1 == len(r.intervals) {
		r.Clean()
		return
	}
	r.intervals = slices.Replace(r.intervals, lo, hi+1, survivors...)
}

// trimStart returns the first interval index overlapped by rng when its
// from endpoint is at p. If that interval starts before rng, the part left
// of rng is returned as a survivor.
func (r *Queue[T]) trimStart(p position, rng Interval[T]) (int, Interval[T], bool) {
	switch p.kind {
	case posExact:
		cur := r.intervals[p.index]
		if cur.from < rng.from {
			// cur.from < rng.from so rng.from-1 always exists
			return p.index, IntervalFrom(cur.from, mustPrev(rng.from)), true
		}
		return p.index, Interval[T]{}, false
	case posJoinFrom:
		return p.index, Interval[T]{}, false
	case posJoinTo, posMerge:
		return p.index + 1, Interval[T]{}, false
	case posFirst:
		return 0, Interval[T]{}, false
	case posBetween:
		return p.right, Interval[T]{}, false
	case posLast:
		return len(r.intervals), Interval[T]{}, false
	default:
		panic(errorf("remove range %s: unknown from position %s", rng, p))
	}
}

// trimEnd returns the last interval index overlapped by rng when its to
// endpoint is at p. If that interval ends after rng, the part right of rng
// is returned as a survivor.
func (r *Queue[T]) trimEnd(p position, rng Interval[T]) (int, Interval[T], bool) {
	switch p.kind {
	case posExact:
		cur := r.intervals[p.index]
		if rng.to < cur.to {
			return p.index, IntervalFrom(mustNext(rng.to), cur.to), true
		}
		return p.index, Interval[T]{}, false
	case posJoinFrom:
		return p.index - 1, Interval[T]{}, false
	case posJoinTo, posMerge:
		return p.index, Interval[T]{}, false
	case posFirst:
		return -1, Interval[T]{}, false
	case posBetween:
		return p.left, Interval[T]{}, false
	case posLast:
		return len(r.intervals) - 1, Interval[T]{}, false
	default:
		panic(errorf("remove range %s: unknown to position %s", rng, p))
	}
}
