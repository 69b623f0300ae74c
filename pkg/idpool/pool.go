package idpool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/henderiw/idxqueue/pkg/queue"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrNoFree     = errors.New("no free entry found")
	ErrOutOfRange = errors.New("id out of range")
	ErrClaimed    = errors.New("entry already claimed")
	ErrNotClaimed = errors.New("entry not claimed")
)

type Pool[T queue.Value] interface {
	Get(id T) (labels.Set, error)
	Claim(id T, d labels.Set) error
	ClaimDynamic(d labels.Set) (T, error)
	ClaimRange(start T, size uint64, d labels.Set) error
	ClaimSize(size uint64, d labels.Set) ([]T, error)
	Release(id T) error
	ReleaseRange(start, end T) error
	Update(id T, d labels.Set) error

	Iterate() *Iterator[T]
	IterateFree() *queue.Iterator[T]

	Count() int
	Has(id T) bool

	IsFree(id T) bool
	FindFree() (T, error)
	FindFreeRange(start T, size uint64) (queue.Interval[T], error)
	FindFreeSize(size uint64) ([]T, error)

	GetAll() map[T]labels.Set
	GetByLabel(selector labels.Selector) map[T]labels.Set

	Free() uint64
	FreeRanges() []queue.Interval[T]
	Bounds() queue.Interval[T]
}

// ValidationFn rejects ids callers may not claim or release. It is not
// consulted for the entries a pool is created with.
type ValidationFn[T queue.Value] func(id T) error

// New returns a pool handing out the ids of [start, end]. initEntries are
// claimed up front; every entry that cannot be claimed is reported in the
// joined error.
func New[T queue.Value](start, end T, initEntries map[T]labels.Set, v ValidationFn[T]) (Pool[T], error) {
	if end < start {
		return nil, fmt.Errorf("invalid pool bounds %d-%d", start, end)
	}
	r := &pool[T]{
		m:          new(sync.RWMutex),
		bounds:     queue.IntervalFrom(start, end),
		free:       queue.FromSingleInterval(start, end),
		table:      map[T]labels.Set{},
		validateFn: v,
	}

	var errm error
	for id, d := range initEntries {
		if err := r.add(id, d, true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type pool[T queue.Value] struct {
	m          *sync.RWMutex
	bounds     queue.Interval[T]
	free       *queue.Queue[T]
	table      map[T]labels.Set
	validateFn ValidationFn[T]
}

func (r *pool[T]) validate(id T, init bool) error {
	if !r.bounds.Contains(id) {
		return fmt.Errorf("id %d outside %s: %w", id, r.bounds, ErrOutOfRange)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *pool[T]) Get(id T) (labels.Set, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if err := r.validate(id, false); err != nil {
		return nil, err
	}
	d, ok := r.table[id]
	if !ok {
		return nil, fmt.Errorf("no match found for: %d", id)
	}
	return d, nil
}

func (r *pool[T]) Claim(id T, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(id, d, false)
}

func (r *pool[T]) ClaimDynamic(d labels.Set) (T, error) {
	r.m.Lock()
	defer r.m.Unlock()

	id, err := r.findFree()
	if err != nil {
		return id, err
	}
	if err := r.add(id, d, false); err != nil {
		return id, err
	}
	return id, nil
}

func (r *pool[T]) ClaimRange(start T, size uint64, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.findFreeRange(start, size)
	if err != nil {
		return err
	}
	ids := make([]T, 0, size)
	for id := range queue.FromSingleInterval(rng.From(), rng.To()).All() {
		if err := r.validate(id, false); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	r.free.RemoveRange(rng.From(), rng.To())
	for _, id := range ids {
		r.table[id] = d
	}
	return nil
}

func (r *pool[T]) ClaimSize(size uint64, d labels.Set) ([]T, error) {
	r.m.Lock()
	defer r.m.Unlock()

	ids, err := r.findFreeSize(size)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		// getting an error is unlikely as we have a lock
		if err := r.add(id, d, false); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// Release returns id to the free ids. Releasing a free id is a no-op.
func (r *pool[T]) Release(id T) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(id)
}

// ReleaseRange returns every claimed id of [start, end] to the free ids.
func (r *pool[T]) ReleaseRange(start, end T) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng := queue.IntervalFrom(start, end)
	if rng.IsEmpty() {
		return fmt.Errorf("invalid range %d-%d", start, end)
	}
	if !rng.CoveredBy(r.bounds) {
		return fmt.Errorf("range %s outside %s: %w", rng, r.bounds, ErrOutOfRange)
	}
	for id := range r.table {
		if !rng.Contains(id) {
			continue
		}
		if err := r.validate(id, false); err != nil {
			return err
		}
	}
	for id := range r.table {
		if rng.Contains(id) {
			delete(r.table, id)
		}
	}
	r.free.EnqueueRange(start, end)
	return nil
}

func (r *pool[T]) Update(id T, d labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(id, d)
}

func (r *pool[T]) Iterate() *Iterator[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

func (r *pool[T]) iterate() *Iterator[T] {
	keys := make([]T, 0, len(r.table))
	for key := range r.table {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})

	table := make(map[T]labels.Set, len(r.table))
	for k, v := range r.table {
		table[k] = v
	}
	return &Iterator[T]{current: -1, keys: keys, table: table}
}

// IterateFree walks the free ids in ascending order.
func (r *pool[T]) IterateFree() *queue.Iterator[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free.Iterate()
}

func (r *pool[T]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *pool[T]) Has(id T) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table[id]
	return ok
}

func (r *pool[T]) IsFree(id T) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.isFree(id)
}

func (r *pool[T]) isFree(id T) bool {
	return r.free.Has(id)
}

func (r *pool[T]) FindFree() (T, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFree()
}

// findFree returns the lowest free id that passes validation.
func (r *pool[T]) findFree() (T, error) {
	for id := range r.free.All() {
		if err := r.validate(id, false); err == nil {
			return id, nil
		}
	}
	var zero T
	return zero, ErrNoFree
}

func (r *pool[T]) FindFreeRange(start T, size uint64) (queue.Interval[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFreeRange(start, size)
}

// findFreeRange returns [start, start+size-1] when every id in it is free.
func (r *pool[T]) findFreeRange(start T, size uint64) (queue.Interval[T], error) {
	var rng queue.Interval[T]
	if size == 0 {
		return rng, fmt.Errorf("size must be at least 1")
	}
	if !r.bounds.Contains(start) {
		return rng, fmt.Errorf("start %d outside %s: %w", start, r.bounds, ErrOutOfRange)
	}
	// both are bit patterns of the same width, the difference is exact
	if size-1 > uint64(r.bounds.To())-uint64(start) {
		return rng, fmt.Errorf("start %d, size %d exceeds %s: %w", start, size, r.bounds, ErrOutOfRange)
	}
	rng = queue.IntervalFrom(start, start+T(size-1))

	for _, free := range r.free.Snapshot() {
		if rng.CoveredBy(free) {
			return rng, nil
		}
	}
	return queue.Interval[T]{}, fmt.Errorf("could not find free range that fit in start %d, size %d", start, size)
}

func (r *pool[T]) FindFreeSize(size uint64) ([]T, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.findFreeSize(size)
}

// findFreeSize returns the lowest size free ids that pass validation.
func (r *pool[T]) findFreeSize(size uint64) ([]T, error) {
	if size > r.bounds.Len() {
		return nil, fmt.Errorf("size %d is bigger then max allowed entries: %d", size, r.bounds.Len())
	}
	if size > r.free.Count() {
		return nil, fmt.Errorf("could not find free entries that fit in size %d", size)
	}
	ids := make([]T, 0, size)
	for id := range r.free.All() {
		if uint64(len(ids)) == size {
			break
		}
		if err := r.validate(id, false); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if uint64(len(ids)) < size {
		return nil, fmt.Errorf("could not find free entries that fit in size %d", size)
	}
	return ids, nil
}

func (r *pool[T]) add(id T, d labels.Set, init bool) error {
	if err := r.validate(id, init); err != nil {
		return err
	}
	if !r.isFree(id) {
		return fmt.Errorf("entry %d: %w", id, ErrClaimed)
	}
	if err := r.free.Remove(id); err != nil {
		return err
	}
	r.table[id] = d
	return nil
}

func (r *pool[T]) update(id T, d labels.Set) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	if r.isFree(id) {
		return fmt.Errorf("entry %d: %w", id, ErrNotClaimed)
	}
	r.table[id] = d
	return nil
}

func (r *pool[T]) delete(id T) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	if _, ok := r.table[id]; !ok {
		return nil
	}
	delete(r.table, id)
	r.free.Enqueue(id)
	return nil
}

func (r *pool[T]) GetAll() map[T]labels.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[T]labels.Set, len(r.table))

	iter := r.iterate()
	for iter.Next() {
		entries[iter.ID()] = iter.Value()
	}
	return entries
}

func (r *pool[T]) GetByLabel(selector labels.Selector) map[T]labels.Set {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := map[T]labels.Set{}

	iter := r.iterate()
	for iter.Next() {
		if selector.Matches(iter.Value()) {
			entries[iter.ID()] = iter.Value()
		}
	}
	return entries
}

// Free returns the number of unclaimed ids.
func (r *pool[T]) Free() uint64 {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free.Count()
}

// FreeRanges returns the unclaimed ids as intervals, nil when the pool is
// exhausted.
func (r *pool[T]) FreeRanges() []queue.Interval[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.free.Snapshot()
}

func (r *pool[T]) Bounds() queue.Interval[T] {
	return r.bounds
}
