package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	size      *prometheus.GaugeVec
	intervals *prometheus.GaugeVec
}

func newMetrics() *metrics {
	return &metrics{
		size: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "idqueue",
				Name:      "queue_size",
				Help:      "Number of ids held by the queue.",
			},
			[]string{
				"queue",
			},
		),
		intervals: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "idqueue",
				Name:      "queue_intervals",
				Help:      "Number of intervals the queue ids are stored as.",
			},
			[]string{
				"queue",
			},
		),
	}
}

// Describe implements prometheus.Collector.
func (r *Registry) Describe(ch chan<- *prometheus.Desc) {
	r.metrics.size.Describe(ch)
	r.metrics.intervals.Describe(ch)
}

// Collect implements prometheus.Collector.
func (r *Registry) Collect(ch chan<- prometheus.Metric) {
	r.m.Lock()
	defer r.m.Unlock()

	r.metrics.size.Reset()
	r.metrics.intervals.Reset()
	for name, e := range r.queues {
		intervals := 0
		if !e.q.IsEmpty() {
			intervals = e.q.NumIntervals()
		}
		r.metrics.size.WithLabelValues(name).Set(float64(e.q.Count()))
		r.metrics.intervals.WithLabelValues(name).Set(float64(intervals))
	}
	r.metrics.size.Collect(ch)
	r.metrics.intervals.Collect(ch)
}
