package idpool

import (
	"github.com/henderiw/idxqueue/pkg/queue"
	"k8s.io/apimachinery/pkg/labels"
)

// Iterator walks the claimed ids of a pool in ascending order.
type Iterator[T queue.Value] struct {
	current int
	keys    []T
	table   map[T]labels.Set
}

func (r *Iterator[T]) Value() labels.Set {
	return r.table[r.keys[r.current]]
}

func (r *Iterator[T]) ID() T {
	return r.keys[r.current]
}

func (r *Iterator[T]) Next() bool {
	r.current++
	return r.current < len(r.keys)
}
