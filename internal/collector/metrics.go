package collector

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the collector's registry and instruments. Prometheus
// instruments are internally synchronized, so ingestion handlers mutate
// them concurrently and exposition reads a consistent snapshot without
// blocking either side.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsTotal *prometheus.CounterVec
	ErrorsTotal  *prometheus.CounterVec
	FlowLatency  *prometheus.HistogramVec
	APILatency   *prometheus.HistogramVec
	Requests     *prometheus.CounterVec
	ParseErrors  prometheus.Counter
}

// NewMetrics constructs a registry and registers all collector metrics on it.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		RecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_records_total",
			Help: "Total records processed per flow",
		}, []string{"flow_name", "status", "symbol"}),

		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_errors_total",
			Help: "Errors reported per flow",
		}, []string{"flow_name", "error_type", "symbol"}),

		FlowLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_flow_latency_seconds",
			Help:    "End-to-end flow latency",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 10.0, 30.0},
		}, []string{"flow_name", "symbol"}),

		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_transaction_latency_seconds",
			Help:    "General transaction latency",
			Buckets: []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.5, 5.0},
		}, []string{"endpoint", "region"}),

		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_transactions_total",
			Help: "Total ingest transactions",
		}, []string{"endpoint", "status", "region"}),

		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_parse_errors_total",
			Help: "Ingest payloads that could not be parsed",
		}),
	}

	m.Registry.MustRegister(
		m.RecordsTotal,
		m.ErrorsTotal,
		m.FlowLatency,
		m.APILatency,
		m.Requests,
		m.ParseErrors,
	)

	return m
}

// Observe folds one parsed run record into the metrics. Counters only
// move when the corresponding count is positive; histograms always
// record the observation.
func (m *Metrics) Observe(rec Record) {
	latencySec := rec.LatencyMS / 1000.0

	if rec.RecordsTotal > 0 {
		m.RecordsTotal.WithLabelValues(rec.FlowName, rec.Status, rec.Symbol).Add(float64(rec.RecordsTotal))
	}
	if rec.Errors > 0 {
		m.ErrorsTotal.WithLabelValues(rec.FlowName, rec.ErrorType, rec.Symbol).Add(float64(rec.Errors))
	}
	m.FlowLatency.WithLabelValues(rec.FlowName, rec.Symbol).Observe(latencySec)

	m.APILatency.WithLabelValues(rec.Endpoint, rec.Region).Observe(latencySec)
	m.Requests.WithLabelValues(rec.Endpoint, rec.Status, rec.Region).Inc()
}
