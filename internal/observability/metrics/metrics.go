package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the lead intake flows.
type IntakeMetrics struct {
	leadsCreated      *prometheus.CounterVec
	wizardSubmissions *prometheus.CounterVec
	wizardSessions    prometheus.Counter
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		leadsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upeo",
			Subsystem: "intake",
			Name:      "leads_created_total",
			Help:      "Total leads persisted, by source",
		}, []string{"source"}),
		wizardSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upeo",
			Subsystem: "intake",
			Name:      "wizard_submissions_total",
			Help:      "Total wizard submission attempts, by outcome",
		}, []string{"outcome"}),
		wizardSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "upeo",
			Subsystem: "intake",
			Name:      "wizard_sessions_total",
			Help:      "Total wizard sessions started",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsCreated, m.wizardSubmissions, m.wizardSessions)
	return m
}

func (m *IntakeMetrics) LeadCreated(source string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "unknown"
	}
	m.leadsCreated.WithLabelValues(source).Inc()
}

func (m *IntakeMetrics) WizardSubmission(outcome string) {
	if m == nil {
		return
	}
	m.wizardSubmissions.WithLabelValues(outcome).Inc()
}

func (m *IntakeMetrics) WizardSessionStarted() {
	if m == nil {
		return
	}
	m.wizardSessions.Inc()
}

// CatalogMetrics exposes counters/histograms for resource catalog queries.
type CatalogMetrics struct {
	queries      *prometheus.CounterVec
	queryLatency prometheus.Histogram
}

func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	m := &CatalogMetrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "upeo",
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Total catalog list queries, by cache result",
		}, []string{"cache"}),
		queryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "upeo",
			Subsystem: "catalog",
			Name:      "query_latency_seconds",
			Help:      "Latency of catalog list queries including filtering",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queries, m.queryLatency)
	return m
}

func (m *CatalogMetrics) Query(cacheResult string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(cacheResult).Inc()
}

func (m *CatalogMetrics) ObserveQueryLatency(seconds float64) {
	if m == nil {
		return
	}
	m.queryLatency.Observe(seconds)
}
