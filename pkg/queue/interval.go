package queue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"
)

// Interval is the closed range [from, to]. It is empty when from > to.
type Interval[T Value] struct {
	from T
	to   T
}

// IntervalFrom returns the interval [from, to].
func IntervalFrom[T Value](from, to T) Interval[T] {
	return Interval[T]{from: from, to: to}
}

// EmptyInterval returns an empty interval anchored at anchor. When anchor-1
// is representable the encoding is [anchor, anchor-1], otherwise it is
// [anchor+1, anchor].
func EmptyInterval[T Value](anchor T) Interval[T] {
	if p, ok := prev(anchor); ok {
		return Interval[T]{from: anchor, to: p}
	}
	return Interval[T]{from: mustNext(anchor), to: anchor}
}

func singleton[T Value](v T) Interval[T] {
	return Interval[T]{from: v, to: v}
}

// ParseInterval parses "from-to". A leading minus sign on either bound is
// accepted for signed types, so "-10--5" is the interval [-10, -5].
func ParseInterval[T Value](s string) (Interval[T], error) {
	var r Interval[T]
	h := strings.IndexByte(s[min(1, len(s)):], '-')
	if h == -1 {
		return r, fmt.Errorf("no hyphen in range %q", s)
	}
	h += min(1, len(s))
	from, to := s[:h], s[h+1:]
	f, err := parseValue[T](from)
	if err != nil {
		return r, fmt.Errorf("invalid from id %q in range %q", from, s)
	}
	t, err := parseValue[T](to)
	if err != nil {
		return r, fmt.Errorf("invalid to id %q in range %q", to, s)
	}
	if t < f {
		return r, fmt.Errorf("from id %q is bigger than to id %q in range %q", from, to, s)
	}
	return IntervalFrom(f, t), nil
}

func parseValue[T Value](s string) (T, error) {
	var zero T
	bitSize := int(unsafe.Sizeof(zero)) * 8
	if isSigned[T]() {
		v, err := strconv.ParseInt(s, 10, bitSize)
		return T(v), err
	}
	v, err := strconv.ParseUint(s, 10, bitSize)
	return T(v), err
}

// From returns the lower bound of r.
func (r Interval[T]) From() T { return r.from }

// To returns the upper bound of r.
func (r Interval[T]) To() T { return r.to }

func (r Interval[T]) IsEmpty() bool { return r.to < r.from }

// Len returns the number of values in r, saturated at math.MaxUint64.
func (r Interval[T]) Len() uint64 {
	if r.IsEmpty() {
		return 0
	}
	// two's complement difference is exact for every width up to 64 bits
	d := uint64(r.to) - uint64(r.from)
	if d == math.MaxUint64 {
		return d
	}
	return d + 1
}

func (r Interval[T]) Contains(v T) bool {
	return r.from <= v && v <= r.to
}

// CoveredBy returns whether r lies entirely within other.
func (r Interval[T]) CoveredBy(other Interval[T]) bool {
	return other.from <= r.from && r.to <= other.to
}

// Less orders intervals by their lower bound.
func (r Interval[T]) Less(other Interval[T]) bool {
	return r.from < other.from
}

func (r Interval[T]) String() string {
	if r.IsEmpty() {
		return "EMPTY"
	}
	return fmt.Sprintf("%d-%d", r.from, r.to)
}

// canEnqueue returns whether v is inside r or exactly one step past either
// edge. An edge at the type's extreme has no neighbour on that side.
func (r Interval[T]) canEnqueue(v T) bool {
	lo, hi := r.from, r.to
	if p, ok := prev(r.from); ok {
		lo = p
	}
	if n, ok := next(r.to); ok {
		hi = n
	}
	return lo <= v && v <= hi
}

// enqueue grows r by one edge value. The owner must have classified v as
// adjacent to r; anything else is an invariant violation.
func (r *Interval[T]) enqueue(v T) {
	switch {
	case r.IsEmpty():
		r.from, r.to = v, v
	case r.Contains(v):
		panic(errorf("value %d is already in interval %s", v, r))
	case adjacent(r.to, v):
		r.to = v
	case adjacent(v, r.from):
		r.from = v
	default:
		panic(errorf("value %d is not adjacent to interval %s", v, r))
	}
}

type removeResult int

const (
	// removeEmptied: r held only the value and is now empty.
	removeEmptied removeResult = iota
	// removeShrunk: an edge moved, the layout is unchanged.
	removeShrunk
	// removeSplit: r keeps the left part, the right part is returned.
	removeSplit
)

// remove takes v out of r, which must contain it.
func (r *Interval[T]) remove(v T) (removeResult, Interval[T]) {
	switch {
	case !r.Contains(v):
		panic(errorf("value %d is not in interval %s", v, r))
	case r.from == v && r.to == v:
		r.makeEmpty()
		return removeEmptied, Interval[T]{}
	case r.from == v:
		r.from = mustNext(v)
		return removeShrunk, Interval[T]{}
	case r.to == v:
		r.to = mustPrev(v)
		return removeShrunk, Interval[T]{}
	default:
		right := Interval[T]{from: mustNext(v), to: r.to}
		r.to = mustPrev(v)
		return removeSplit, right
	}
}

// tryMergeWithNext returns the union of r and other when other starts right
// after r ends.
func (r Interval[T]) tryMergeWithNext(other Interval[T]) (Interval[T], bool) {
	if adjacent(r.to, other.from) {
		return Interval[T]{from: r.from, to: other.to}, true
	}
	return Interval[T]{}, false
}

// makeEmpty turns r into the empty encoding that remembers r.to as the
// highest value consumed.
func (r *Interval[T]) makeEmpty() {
	if n, ok := next(r.to); ok {
		r.from = n
		return
	}
	r.from = r.to
	r.to = mustPrev(r.to)
}
