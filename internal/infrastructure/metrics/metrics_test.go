package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementRecordsCreated()
	m.IncrementRecordsCreated()
	m.IncrementArtifact(ArtifactQRCode)
	m.IncrementArtifactFailure(ArtifactDocument)
	m.ObserveCacheLookup(true)
	m.ObserveCacheLookup(false)
	m.ObserveCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactsGenerated.WithLabelValues(ArtifactQRCode)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ArtifactsGenerated.WithLabelValues(ArtifactDocument)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArtifactFailures.WithLabelValues(ArtifactDocument)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfileCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProfileCacheLookups.WithLabelValues("miss")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementRecordsCreated()
		m.IncrementArtifact(ArtifactDocument)
		m.IncrementArtifactFailure(ArtifactQRCode)
		m.ObserveCacheLookup(true)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
