package queue

import "slices"

// EnqueueRange adds every value of [from, to]. Intervals touched or bridged
// by the range are coalesced into one. Nothing happens when from > to.
func (r *Queue[T]) EnqueueRange(from, to T) {
	r.enqueueRange(IntervalFrom(from, to))
}

func (r *Queue[T]) enqueueRange(rng Interval[T]) {
	if rng.IsEmpty() {
		return
	}
	if r.IsEmpty() {
		r.intervals[0] = rng
		return
	}

	fromPos, toPos := classifyRange(r.intervals, rng)
	lo, newFrom := r.spliceStart(fromPos, rng)
	hi, newTo := r.spliceEnd(toPos, rng)
	if hi < lo-1 {
		panic(errorf("enqueue range %s: positions %s/%s do not form a span in %v",
			rng, fromPos, toPos, r.intervals))
	}
	// intervals[lo..hi] are replaced by the merged interval; an empty span
	// (hi == lo-1) is a plain insert at lo.
	r.intervals = slices.Replace(r.intervals, lo, hi+1, IntervalFrom(newFrom, newTo))
}

// spliceStart returns the first interval index absorbed by an insert whose
// from endpoint is at p, together with the resulting lower bound.
func (r *Queue[T]) spliceStart(p position, rng Interval[T]) (int, T) {
	switch p.kind {
	case posExact, posJoinTo, posMerge:
		// the interval at index already starts before rng
		return p.index, r.intervals[p.index].from
	case posJoinFrom:
		return p.index, rng.from
	case posFirst:
		return 0, rng.from
	case posBetween:
		return p.right, rng.from
	case posLast:
		return len(r.intervals), rng.from
	default:
		panic(errorf("enqueue range %s: unknown from position %s", rng, p))
	}
}

// spliceEnd returns the last interval index absorbed by an insert whose to
// endpoint is at p, together with the resulting upper bound.
func (r *Queue[T]) spliceEnd(p position, rng Interval[T]) (int, T) {
	switch p.kind {
	case posExact, posJoinFrom:
		// the interval at index already ends after rng
		return p.index, r.intervals[p.index].to
	case posMerge:
		return p.index + 1, r.intervals[p.index+1].to
	case posJoinTo:
		return p.index, rng.to
	case posFirst:
		return -1, rng.to
	case posBetween:
		return p.left, rng.to
	case posLast:
		return len(r.intervals) - 1, rng.to
	default:
		panic(errorf("enqueue range %s: unknown to position %s", rng, p))
	}
}
