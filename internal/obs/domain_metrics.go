package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// DocumentSubmitTotal counts document submission outcomes by kind.
	DocumentSubmitTotal *prometheus.CounterVec
	// CatalogFetchTotal counts catalog child-list fetch outcomes by level.
	CatalogFetchTotal *prometheus.CounterVec
	// CatalogStaleDropTotal counts child-list responses discarded because the
	// parent selection changed while the fetch was in flight.
	CatalogStaleDropTotal prometheus.Counter
	// IntakeTotal counts guest intake requests by channel and result.
	IntakeTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DocumentSubmitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_submit_total",
			Help:      "Count of document submission outcomes by document kind.",
		}, []string{"kind", "result"})
		CatalogFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetch_total",
			Help:      "Count of catalog child-list fetches by hierarchy level and outcome.",
		}, []string{"level", "result"})
		CatalogStaleDropTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_stale_drop_total",
			Help:      "Number of catalog fetch responses discarded as stale.",
		})
		IntakeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intake_total",
			Help:      "Count of guest intake submissions by channel and outcome.",
		}, []string{"channel", "result"})

		mustRegisterCollector(reg, DocumentSubmitTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DocumentSubmitTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogFetchTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CatalogFetchTotal = v
			}
		})
		mustRegisterCollector(reg, CatalogStaleDropTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CatalogStaleDropTotal = v
			}
		})
		mustRegisterCollector(reg, IntakeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				IntakeTotal = v
			}
		})
	})
}

// CountDocumentSubmit records one submission outcome if metrics are registered.
func CountDocumentSubmit(kind, result string) {
	if DocumentSubmitTotal != nil {
		DocumentSubmitTotal.WithLabelValues(kind, result).Inc()
	}
}

// CountCatalogFetch records one catalog fetch outcome if metrics are registered.
func CountCatalogFetch(level, result string) {
	if CatalogFetchTotal != nil {
		CatalogFetchTotal.WithLabelValues(level, result).Inc()
	}
}

// CountCatalogStaleDrop records one discarded stale response.
func CountCatalogStaleDrop() {
	if CatalogStaleDropTotal != nil {
		CatalogStaleDropTotal.Inc()
	}
}

// CountIntake records one intake outcome if metrics are registered.
func CountIntake(channel, result string) {
	if IntakeTotal != nil {
		IntakeTotal.WithLabelValues(channel, result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return
		}
		panic(err)
	}
}
