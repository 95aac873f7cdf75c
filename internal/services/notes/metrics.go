package notes

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	hits          prometheus.Counter
	fetches       *prometheus.CounterVec
	joins         prometheus.Counter
	invalidations prometheus.Counter
}

// newMetrics builds the coordinator collectors and registers them on reg
// when it is not nil.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notes_cache_hits_total",
			Help: "Queries answered from a fresh cache entry",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notes_fetches_total",
			Help: "Completed list fetches by outcome",
		}, []string{"outcome"}),
		joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notes_fetch_joins_total",
			Help: "Requests that joined an outstanding fetch instead of issuing one",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notes_invalidations_total",
			Help: "Invalidations of the notes key family",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.fetches, m.joins, m.invalidations)
	}
	return m
}
