package segmenter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "segmenter"

// Metrics counts what the segmentation does to each detector readout.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	eventsSegmented   *prometheus.CounterVec
	eventsUnsegmented *prometheus.CounterVec
	subEvents         *prometheus.CounterVec
	digitsMoved       *prometheus.CounterVec
	digitsDropped     *prometheus.CounterVec
	digitsKept        *prometheus.CounterVec
	tracksMoved       *prometheus.CounterVec
	trackFallbacks    *prometheus.CounterVec
	eventDuration     prometheus.Histogram
}

// NewMetrics registers the segmentation metrics on a new registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)
	m.registry = registry
	return m
}

// NewMetricsWith registers the segmentation metrics on reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	counter := func(name, help string) *prometheus.CounterVec {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, []string{"detector"})
		reg.MustRegister(c)
		return c
	}
	m := &Metrics{
		eventsSegmented:   counter("events_segmented_total", "Detector readouts split into trigger windows."),
		eventsUnsegmented: counter("events_unsegmented_total", "Detector readouts left whole because no trigger window was found."),
		subEvents:         counter("subevents_total", "Sub-events produced."),
		digitsMoved:       counter("digits_moved_total", "Digits moved from the 0th trigger to a later one."),
		digitsDropped:     counter("digits_dropped_total", "Digits removed from the 0th trigger without being moved."),
		digitsKept:        counter("digits_kept_total", "Digits remaining in the 0th trigger."),
		tracksMoved:       counter("tracks_moved_total", "Tracks moved from the 0th trigger to a later one."),
		trackFallbacks:    counter("track_fallbacks_total", "Tracks later than every trigger window, stored in the last one."),
		eventDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "event_duration_seconds",
			Help:      "Time spent segmenting one raw event.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
	reg.MustRegister(m.eventDuration)
	return m
}

// Gatherer returns the registry created by NewMetrics, or nil.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveEvent(result Result) {
	if m == nil {
		return
	}
	m.observeDetector(result.ID)
	if result.OD != nil {
		m.observeDetector(*result.OD)
	}
	m.eventDuration.Observe(result.Duration.Seconds())
}

func (m *Metrics) observeDetector(r DetectorResult) {
	label := r.Detector.String()
	if !r.Segmented {
		m.eventsUnsegmented.WithLabelValues(label).Inc()
		return
	}
	m.eventsSegmented.WithLabelValues(label).Inc()
	m.subEvents.WithLabelValues(label).Add(float64(r.Windows))
	m.digitsMoved.WithLabelValues(label).Add(float64(r.Digits.Moved))
	m.digitsDropped.WithLabelValues(label).Add(float64(r.Digits.Dropped))
	m.digitsKept.WithLabelValues(label).Add(float64(r.Digits.After))
	m.tracksMoved.WithLabelValues(label).Add(float64(r.Tracks.Moved))
	m.trackFallbacks.WithLabelValues(label).Add(float64(r.Tracks.Fallbacks))
}

// WriteToTextfile exports the metrics in the Prometheus text format.
func (m *Metrics) WriteToTextfile(filename string) error {
	if m == nil || m.registry == nil {
		return nil
	}
	return prometheus.WriteToTextfile(filename, m.registry)
}
