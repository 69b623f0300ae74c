package registry

import (
	"errors"
	"fmt"

	"github.com/henderiw/idxqueue/pkg/queue"
	"github.com/henderiw/idxqueue/pkg/store"
)

// Flush saves every queue changed since the last Flush or Load. Queues that
// fail to save stay dirty and are reported in the joined error.
func (r *Registry) Flush() error {
	if r.store == nil {
		return fmt.Errorf("flush: no store configured")
	}
	r.m.Lock()
	defer r.m.Unlock()

	var errm error
	saved := 0
	for _, name := range r.names() {
		e := r.queues[name]
		if !e.dirty {
			continue
		}
		if err := r.store.Save(name, toRecord(e)); err != nil {
			errm = errors.Join(errm, err)
			continue
		}
		e.dirty = false
		saved++
	}
	r.log.Debugw("flushed", "saved", saved, "queues", len(r.queues))
	return errm
}

// Load replaces the queues held in memory by the ones in the store. A record
// that does not restore into a valid queue fails the whole load.
func (r *Registry) Load() error {
	if r.store == nil {
		return fmt.Errorf("load: no store configured")
	}
	names, err := r.store.List()
	if err != nil {
		return err
	}

	queues := make(map[string]*entry, len(names))
	for _, name := range names {
		rec, err := r.store.Load(name)
		if err != nil {
			return err
		}
		e, err := fromRecord(rec)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		queues[name] = e
	}

	r.m.Lock()
	defer r.m.Unlock()
	r.queues = queues
	r.log.Infow("loaded", "queues", len(queues))
	return nil
}

func toRecord(e *entry) store.Record {
	intervals := e.q.Intervals()
	spans := make([]store.Span, 0, len(intervals))
	for _, i := range intervals {
		spans = append(spans, store.Span{From: uint64(i.From()), To: uint64(i.To())})
	}
	return store.Record{Labels: e.labels, Spans: spans}
}

func fromRecord(rec store.Record) (*entry, error) {
	if len(rec.Spans) == 0 {
		return nil, fmt.Errorf("record holds no intervals")
	}
	intervals := make([]queue.Interval[int64], 0, len(rec.Spans))
	for _, s := range rec.Spans {
		intervals = append(intervals, queue.IntervalFrom(int64(s.From), int64(s.To)))
	}
	q := queue.Restore(intervals...)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &entry{q: q, labels: rec.Labels}, nil
}
