package queue

import "golang.org/x/exp/constraints"

// Value is the set of integer types a Queue can hold. Every boundary step
// goes through next and prev so a boundary at the type's extreme never wraps.
type Value interface {
	constraints.Integer
}

// next returns v+1. ok is false when v is the largest value of T.
func next[T Value](v T) (T, bool) {
	n := v + 1
	if n < v {
		return v, false
	}
	return n, true
}

// prev returns v-1. ok is false when v is the smallest value of T.
func prev[T Value](v T) (T, bool) {
	p := v - 1
	if p > v {
		return v, false
	}
	return p, true
}

func mustNext[T Value](v T) T {
	n, ok := next(v)
	if !ok {
		panic(errorf("value %d has no successor", v))
	}
	return n
}

func mustPrev[T Value](v T) T {
	p, ok := prev(v)
	if !ok {
		panic(errorf("value %d has no predecessor", v))
	}
	return p
}

// adjacent reports whether b == a+1.
func adjacent[T Value](a, b T) bool {
	n, ok := next(a)
	return ok && n == b
}

func isSigned[T Value]() bool {
	var zero T
	return zero-1 < zero
}
