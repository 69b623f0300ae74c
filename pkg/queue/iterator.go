package queue

import "iter"

// Iterator walks the queued values in ascending order over a copy of the
// intervals taken when it was created.
type Iterator[T Value] struct {
	intervals []Interval[T]
	current   int
	value     T
	started   bool
}

// Iterate returns a new iterator positioned before the smallest value.
func (r *Queue[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{intervals: r.Intervals(), current: -1}
}

// Value returns the value the iterator is positioned on.
func (r *Iterator[T]) Value() T {
	return r.value
}

// Next advances to the next value and reports whether there is one.
func (r *Iterator[T]) Next() bool {
	if r.started && r.current < len(r.intervals) && r.value < r.intervals[r.current].to {
		r.value++
		return true
	}
	r.started = true
	for r.current++; r.current < len(r.intervals); r.current++ {
		if !r.intervals[r.current].IsEmpty() {
			r.value = r.intervals[r.current].from
			return true
		}
	}
	return false
}

// All returns the queued values in ascending order. The sequence reads the
// queue each time it is ranged over.
func (r *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := r.Iterate()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}
