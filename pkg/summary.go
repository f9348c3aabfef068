package segmenter

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RunSummary accumulates per sub-event quantities over a run. It is safe for
// concurrent use.
type RunSummary struct {
	mu             sync.Mutex
	events         int
	unsegmented    int
	trackFallbacks int
	digits         []float64
	charges        []float64
}

// Add records every sub-event of a processed event.
func (s *RunSummary) Add(raw *RawEvent, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events++
	s.addDetector(raw.ID, result.ID)
	if raw.OD != nil && result.OD != nil {
		s.addDetector(raw.OD, *result.OD)
	}
}

func (s *RunSummary) addDetector(ev *Event, result DetectorResult) {
	s.trackFallbacks += result.Tracks.Fallbacks
	if !result.Segmented {
		s.unsegmented++
		return
	}
	for i := 0; i < ev.NumSubEvents(); i++ {
		trig := ev.SubEvent(i)
		s.digits = append(s.digits, float64(trig.NumDigitizedTubes))
		s.charges = append(s.charges, trig.SumQ)
	}
}

type SummaryReport struct {
	Events          int
	Unsegmented     int
	SubEvents       int
	TrackFallbacks  int
	MeanDigits      float64
	StdDevDigits    float64
	MeanCharge      float64
	StdDevCharge    float64
	TotalCharge     float64
	TotalDigitCount float64
}

func (s *RunSummary) Report() SummaryReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := SummaryReport{
		Events:         s.events,
		Unsegmented:    s.unsegmented,
		SubEvents:      len(s.digits),
		TrackFallbacks: s.trackFallbacks,
	}
	if len(s.digits) == 0 {
		return report
	}
	report.MeanDigits, report.StdDevDigits = stat.MeanStdDev(s.digits, nil)
	report.MeanCharge, report.StdDevCharge = stat.MeanStdDev(s.charges, nil)
	report.TotalCharge = floats.Sum(s.charges)
	report.TotalDigitCount = floats.Sum(s.digits)
	return report
}

func (r SummaryReport) String() string {
	return fmt.Sprintf("%d events, %d sub-events, %d readouts unsegmented, %d track fallbacks, "+
		"digits per sub-event %.2f +- %.2f, charge per sub-event %.2f +- %.2f",
		r.Events, r.SubEvents, r.Unsegmented, r.TrackFallbacks,
		r.MeanDigits, r.StdDevDigits, r.MeanCharge, r.StdDevCharge)
}
