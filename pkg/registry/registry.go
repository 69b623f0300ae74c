package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/henderiw/idxqueue/pkg/queue"
	"github.com/henderiw/idxqueue/pkg/store"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrNotFound = errors.New("queue not found")
	ErrExists   = errors.New("queue already exists")
)

// Info describes a named queue.
type Info struct {
	Name      string
	Labels    labels.Set
	Count     uint64
	Intervals []queue.Interval[int64]
}

type entry struct {
	q      *queue.Queue[int64]
	labels labels.Set
	dirty  bool
}

// Registry holds named queues of int64 ids and serializes access to them.
// Queues are persisted to the optional store on Flush.
type Registry struct {
	m       *sync.RWMutex
	queues  map[string]*entry
	store   store.Store
	log     *zap.SugaredLogger
	metrics *metrics
}

type Option func(*Registry)

// WithStore persists the queues to s.
func WithStore(s store.Store) Option {
	return func(r *Registry) { r.store = s }
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		m:       new(sync.RWMutex),
		queues:  map[string]*entry{},
		log:     zap.NewNop().Sugar(),
		metrics: newMetrics(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create adds an empty queue anchored at anchor.
func (r *Registry) Create(name string, anchor int64, l labels.Set) error {
	if name == "" {
		return fmt.Errorf("queue name cannot be empty")
	}
	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.queues[name]; ok {
		return fmt.Errorf("create %s: %w", name, ErrExists)
	}
	r.queues[name] = &entry{q: queue.New(anchor), labels: l, dirty: true}
	r.log.Infow("queue created", "name", name, "anchor", anchor, "labels", l.String())
	return nil
}

// Get returns a copy of the named queue.
func (r *Registry) Get(name string) (*queue.Queue[int64], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, err := r.get(name)
	if err != nil {
		return nil, err
	}
	return e.q.Clone(), nil
}

func (r *Registry) Info(name string) (Info, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, err := r.get(name)
	if err != nil {
		return Info{}, err
	}
	return e.info(name), nil
}

func (e *entry) info(name string) Info {
	return Info{
		Name:      name,
		Labels:    e.labels,
		Count:     e.q.Count(),
		Intervals: e.q.Snapshot(),
	}
}

// Delete removes the named queue, from the store as well.
func (r *Registry) Delete(name string) error {
	r.m.Lock()
	defer r.m.Unlock()

	if _, err := r.get(name); err != nil {
		return err
	}
	if r.store != nil {
		if err := r.store.Delete(name); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}
	delete(r.queues, name)
	r.log.Infow("queue deleted", "name", name)
	return nil
}

// List returns the queue names in ascending order.
func (r *Registry) List() []string {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.queues))
	for name := range r.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetByLabel returns the queues whose labels match selector.
func (r *Registry) GetByLabel(selector labels.Selector) []Info {
	r.m.RLock()
	defer r.m.RUnlock()

	var infos []Info
	for _, name := range r.names() {
		e := r.queues[name]
		if selector.Matches(e.labels) {
			infos = append(infos, e.info(name))
		}
	}
	return infos
}

func (r *Registry) Enqueue(name string, v int64) error {
	return r.update(name, func(q *queue.Queue[int64]) error {
		q.Enqueue(v)
		return nil
	})
}

func (r *Registry) EnqueueRange(name string, from, to int64) error {
	return r.update(name, func(q *queue.Queue[int64]) error {
		q.EnqueueRange(from, to)
		return nil
	})
}

// Dequeue removes and returns the smallest id of the named queue. ok is false
// when the queue is empty.
func (r *Registry) Dequeue(name string) (v int64, ok bool, err error) {
	err = r.update(name, func(q *queue.Queue[int64]) error {
		v, ok = q.Dequeue()
		return nil
	})
	return v, ok, err
}

func (r *Registry) Peek(name string) (int64, bool, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, err := r.get(name)
	if err != nil {
		return 0, false, err
	}
	v, ok := e.q.Peek()
	return v, ok, nil
}

func (r *Registry) Remove(name string, v int64) error {
	return r.update(name, func(q *queue.Queue[int64]) error {
		return q.Remove(v)
	})
}

func (r *Registry) RemoveRange(name string, from, to int64) error {
	return r.update(name, func(q *queue.Queue[int64]) error {
		q.RemoveRange(from, to)
		return nil
	})
}

// Merge adds every id of src to dst.
func (r *Registry) Merge(dst, src string) error {
	r.m.Lock()
	defer r.m.Unlock()

	s, err := r.get(src)
	if err != nil {
		return err
	}
	d, err := r.get(dst)
	if err != nil {
		return err
	}
	d.q.Merge(s.q)
	d.dirty = true
	return nil
}

func (r *Registry) Has(name string, v int64) (bool, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, err := r.get(name)
	if err != nil {
		return false, err
	}
	return e.q.Has(v), nil
}

func (r *Registry) Count(name string) (uint64, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, err := r.get(name)
	if err != nil {
		return 0, err
	}
	return e.q.Count(), nil
}

func (r *Registry) Snapshot(name string) ([]queue.Interval[int64], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, err := r.get(name)
	if err != nil {
		return nil, err
	}
	return e.q.Snapshot(), nil
}

func (r *Registry) get(name string) (*entry, error) {
	e, ok := r.queues[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return e, nil
}

// update applies fn to the named queue under the write lock. The queue is
// marked dirty unless fn fails.
func (r *Registry) update(name string, fn func(q *queue.Queue[int64]) error) error {
	r.m.Lock()
	defer r.m.Unlock()

	e, err := r.get(name)
	if err != nil {
		return err
	}
	if err := fn(e.q); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	e.dirty = true
	return nil
}
