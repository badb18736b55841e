package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Artifact kinds
const (
	ArtifactQRCode   = "qr_code"
	ArtifactDocument = "document"
)

// Metrics provides observability for record and artifact operations.
type Metrics struct {
	// Records stored
	RecordsCreated prometheus.Counter

	// Artifacts served, by kind
	ArtifactsGenerated *prometheus.CounterVec

	// Artifact failures, by kind
	ArtifactFailures *prometheus.CounterVec

	// Profile cache lookups, by result: "hit" or "miss"
	ProfileCacheLookups *prometheus.CounterVec
}

// New registers all service metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "lifesaver_records_created_total",
			Help: "Total emergency records stored",
		}),

		ArtifactsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesaver_artifacts_generated_total",
			Help: "Total artifacts generated by kind",
		}, []string{"kind"}),

		ArtifactFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesaver_artifact_failures_total",
			Help: "Total artifact generation failures by kind",
		}, []string{"kind"}),

		ProfileCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesaver_profile_cache_lookups_total",
			Help: "Profile cache lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementRecordsCreated() {
	if m != nil {
		m.RecordsCreated.Inc()
	}
}

func (m *Metrics) IncrementArtifact(kind string) {
	if m != nil {
		m.ArtifactsGenerated.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementArtifactFailure(kind string) {
	if m != nil {
		m.ArtifactFailures.WithLabelValues(kind).Inc()
	}
}

// ObserveCacheLookup records a profile cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ProfileCacheLookups.WithLabelValues(result).Inc()
}
