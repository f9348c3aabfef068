package segmenter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObserveEvent(t *testing.T) {
	m := NewMetrics()
	s := NewSegmenter(Options{SaveMultipleDigitsPerTrigger: true}, testGeometry, m)

	raw, _ := scenarioEvent()
	_, err := s.Process(raw)
	require.NoError(t, err)

	empty := &RawEvent{ID: NewEvent(0), OD: NewEvent(0)}
	_, err = s.Process(empty)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsSegmented.WithLabelValues("ID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsUnsegmented.WithLabelValues("ID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsUnsegmented.WithLabelValues("OD")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.subEvents.WithLabelValues("ID")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.digitsMoved.WithLabelValues("ID")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.digitsDropped.WithLabelValues("ID")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.digitsKept.WithLabelValues("ID")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.eventDuration))
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveEvent(Result{}) })
	assert.Nil(t, m.Gatherer())
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "metrics.prom")))
}

func TestMetricsWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetricsWith(registry)
	m.ObserveEvent(Result{ID: DetectorResult{Detector: InnerDetector, Segmented: true, Windows: 3}})

	families, err := registry.Gather()
	require.NoError(t, err)
	names := []string{}
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "segmenter_subevents_total")
	assert.Contains(t, names, "segmenter_event_duration_seconds")
	assert.Nil(t, m.Gatherer())
}

func TestMetricsWriteToTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveEvent(Result{ID: DetectorResult{Detector: InnerDetector, Segmented: true, Windows: 2}})

	filename := filepath.Join(t.TempDir(), "segmenter.prom")
	require.NoError(t, m.WriteToTextfile(filename))
	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), `segmenter_subevents_total{detector="ID"} 2`)
}
