package queue

import (
	"fmt"
	"slices"
	"strings"
)

// Queue is a sorted, run-length encoded set of integer ids with queue
// semantics. Values are kept as disjoint closed intervals ordered by their
// lower bound with at least one missing value between any two of them.
//
// The interval list is never empty: a queue without members holds a single
// empty interval whose upper bound remembers the highest value consumed.
//
// A Queue is not safe for concurrent use.
type Queue[T Value] struct {
	intervals []Interval[T]
}

// New returns an empty queue anchored at anchor.
func New[T Value](anchor T) *Queue[T] {
	return &Queue[T]{
		intervals: []Interval[T]{EmptyInterval(anchor)},
	}
}

// Restore rebuilds a queue from ranges, which are sorted by their lower
// bound. The ranges are expected to be disjoint and non-adjacent; this is not
// checked. No ranges yield an empty queue anchored at zero.
func Restore[T Value](ranges ...Interval[T]) *Queue[T] {
	r := New[T](0)
	r.Reset(ranges...)
	return r
}

// FromSingleInterval returns a queue holding [from, to].
func FromSingleInterval[T Value](from, to T) *Queue[T] {
	r := New(from)
	r.EnqueueRange(from, to)
	return r
}

// Reset replaces the content of the queue by ranges, sorted by their lower
// bound. No ranges clean the queue.
func (r *Queue[T]) Reset(ranges ...Interval[T]) {
	if len(ranges) == 0 {
		r.Clean()
		return
	}
	intervals := slices.Clone(ranges)
	slices.SortStableFunc(intervals, func(a, b Interval[T]) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	r.intervals = intervals
}

// Clean removes every value. The placeholder interval keeps the previous
// maximum as its anchor.
func (r *Queue[T]) Clean() {
	to := r.intervals[len(r.intervals)-1].to
	r.intervals = r.intervals[:1]
	r.intervals[0].to = to
	r.intervals[0].makeEmpty()
}

func (r *Queue[T]) IsEmpty() bool {
	return len(r.intervals) == 1 && r.intervals[0].IsEmpty()
}

// Enqueue adds v. Enqueueing a value already present is a no-op.
func (r *Queue[T]) Enqueue(v T) {
	if r.IsEmpty() {
		r.intervals[0] = singleton(v)
		return
	}

	idx := classifyInsert(r.intervals, v)
	switch idx.kind {
	case insertHasValue:
	case insertExtendFrom, insertExtendTo:
		r.intervals[idx.index].enqueue(v)
	case insertBridge:
		merged, ok := r.intervals[idx.index].tryMergeWithNext(IntervalFrom(v, r.intervals[idx.index+1].to))
		if !ok {
			panic(errorf("enqueue %d: cannot bridge %s and %s",
				v, r.intervals[idx.index], r.intervals[idx.index+1]))
		}
		r.intervals = slices.Replace(r.intervals, idx.index, idx.index+2, merged)
	case insertNew:
		r.intervals = slices.Insert(r.intervals, idx.index, singleton(v))
	default:
		panic(errorf("enqueue %d: unknown insert position %d", v, idx.kind))
	}
}

// Remove takes v out of the queue. It returns ErrQueueIsEmpty when the queue
// has no values and ErrMessagesNotFound when v is not queued; the queue is
// unchanged in both cases.
func (r *Queue[T]) Remove(v T) error {
	if r.IsEmpty() {
		return fmt.Errorf("remove %d: %w", v, ErrQueueIsEmpty)
	}

	idx := classifyRemove(r.intervals, v)
	switch idx.kind {
	case removeNoValue:
		return fmt.Errorf("remove %d: %w", v, ErrMessagesNotFound)
	case removeWhole:
		r.removeInterval(idx.index)
	case removeIncFrom, removeDecTo:
		if res, _ := r.intervals[idx.index].remove(v); res != removeShrunk {
			panic(errorf("remove %d: expected %s to shrink", v, r.intervals[idx.index]))
		}
	case removeSplitAt:
		res, right := r.intervals[idx.index].remove(v)
		if res != removeSplit {
			panic(errorf("remove %d: expected %s to split", v, r.intervals[idx.index]))
		}
		r.intervals = slices.Insert(r.intervals, idx.index+1, right)
	default:
		panic(errorf("remove %d: unknown remove position %d", v, idx.kind))
	}
	return nil
}

// removeInterval drops intervals[index]. The last remaining interval is
// emptied in place instead.
func (r *Queue[T]) removeInterval(index int) {
	if len(r.intervals) > 1 {
		r.intervals = slices.Delete(r.intervals, index, index+1)
		return
	}
	if !r.intervals[0].IsEmpty() {
		r.intervals[0].makeEmpty()
	}
}

// Dequeue removes and returns the smallest value. ok is false when the queue
// is empty.
func (r *Queue[T]) Dequeue() (T, bool) {
	first := &r.intervals[0]
	if first.IsEmpty() {
		var zero T
		return zero, false
	}

	v := first.from
	if first.from == first.to {
		r.removeInterval(0)
		return v, true
	}
	first.from = mustNext(v)
	return v, true
}

// Peek returns the smallest value without removing it.
func (r *Queue[T]) Peek() (T, bool) {
	return r.Min()
}

// Merge adds every value of other to r. other is left untouched.
func (r *Queue[T]) Merge(other *Queue[T]) {
	for i := len(other.intervals) - 1; i >= 0; i-- {
		r.enqueueRange(other.intervals[i])
	}
}

// Has returns whether v is queued.
func (r *Queue[T]) Has(v T) bool {
	i := seek(r.intervals, v)
	return i < len(r.intervals) && r.intervals[i].Contains(v)
}

// Min returns the smallest queued value.
func (r *Queue[T]) Min() (T, bool) {
	first := r.intervals[0]
	if first.IsEmpty() {
		var zero T
		return zero, false
	}
	return first.from, true
}

// Max returns the largest queued value.
func (r *Queue[T]) Max() (T, bool) {
	last := r.intervals[len(r.intervals)-1]
	if last.IsEmpty() {
		var zero T
		return zero, false
	}
	return last.to, true
}

// Count returns the number of queued values, saturated at math.MaxUint64.
func (r *Queue[T]) Count() uint64 {
	var total uint64
	for _, interval := range r.intervals {
		n := interval.Len()
		if total+n < total {
			return ^uint64(0)
		}
		total += n
	}
	return total
}

// Len is an alias of Count.
func (r *Queue[T]) Len() uint64 { return r.Count() }

// Snapshot returns a copy of the intervals, or nil when the queue is empty.
func (r *Queue[T]) Snapshot() []Interval[T] {
	if r.IsEmpty() {
		return nil
	}
	return slices.Clone(r.intervals)
}

// Intervals returns a copy of the intervals including the empty placeholder.
func (r *Queue[T]) Intervals() []Interval[T] {
	return slices.Clone(r.intervals)
}

// Interval returns the interval at index.
func (r *Queue[T]) Interval(index int) (Interval[T], bool) {
	if index < 0 || index >= len(r.intervals) {
		return Interval[T]{}, false
	}
	return r.intervals[index], true
}

// NumIntervals returns the number of stored intervals, the placeholder included.
func (r *Queue[T]) NumIntervals() int { return len(r.intervals) }

// Clone returns a deep copy of r.
func (r *Queue[T]) Clone() *Queue[T] {
	return &Queue[T]{intervals: slices.Clone(r.intervals)}
}

// Validate checks the layout invariants: a non-empty list, the empty
// encoding only as the sole placeholder, ascending order and at least one
// missing value between consecutive intervals.
func (r *Queue[T]) Validate() error {
	if len(r.intervals) == 0 {
		return fmt.Errorf("no intervals")
	}
	if len(r.intervals) == 1 {
		return nil
	}
	for i, interval := range r.intervals {
		if interval.IsEmpty() {
			return fmt.Errorf("interval %d is empty in a list of %d", i, len(r.intervals))
		}
		if i == 0 {
			continue
		}
		p := r.intervals[i-1]
		if p.to >= interval.from {
			return fmt.Errorf("interval %s overlaps or is not sorted before %s", p, interval)
		}
		if _, ok := p.tryMergeWithNext(interval); ok {
			return fmt.Errorf("interval %s is adjacent to %s", p, interval)
		}
	}
	return nil
}

func (r *Queue[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, interval := range r.intervals {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(interval.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
