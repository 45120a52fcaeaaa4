package assetcache

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the cache's prometheus collectors. The collectors are always
// created so call sites can increment unconditionally; they are only
// exported when a registerer is supplied via WithMetricsRegistry.
type metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	loads         prometheus.Counter
	loadErrors    prometheus.Counter
	evictions     prometheus.Counter
	reloads       prometheus.Counter
	refreshes     prometheus.Counter
	loadedEntries prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_hits_total",
			Help: "Guard acquisitions served from an already-loaded resource",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_misses_total",
			Help: "Guard acquisitions that required loading the resource",
		}),
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_loads_total",
			Help: "Successful resource loads",
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_load_errors_total",
			Help: "Resource loads that failed with an I/O or data error",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_evictions_total",
			Help: "Resources unloaded by UnloadUnused",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_reloads_total",
			Help: "Resources unloaded by Refresh because their file changed",
		}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "assetcache_refreshes_total",
			Help: "File index rebuilds",
		}),
		loadedEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "assetcache_loaded_entries",
			Help: "Resources currently held in memory",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.hits,
			m.misses,
			m.loads,
			m.loadErrors,
			m.evictions,
			m.reloads,
			m.refreshes,
			m.loadedEntries,
		)
	}
	return m
}
