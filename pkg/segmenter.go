package segmenter

import (
	"fmt"
	"time"
)

type Options struct {
	// When false a tube keeps at most one digit per trigger window.
	SaveMultipleDigitsPerTrigger bool
	// Keep only the digits that fall in no trigger window.
	SaveOnlyFailedDigits bool
	// Stored in every sub-event header, not used in any time computation.
	TriggerOffset TimeDelta
	Verbosity     int
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRebasing
	PhaseClassifyingDigits
	PhaseClassifyingTracks
	PhaseFinalizing
)

var phaseStrings = []string{
	"Idle",
	"Rebasing",
	"ClassifyingDigits",
	"ClassifyingTracks",
	"Finalizing",
}

func (p Phase) String() string {
	if p < PhaseIdle || p > PhaseFinalizing {
		return "Unknown"
	}
	return phaseStrings[p]
}

var nextPhase = map[Phase]Phase{
	PhaseIdle:              PhaseRebasing,
	PhaseRebasing:          PhaseClassifyingDigits,
	PhaseClassifyingDigits: PhaseClassifyingTracks,
	PhaseClassifyingTracks: PhaseFinalizing,
	PhaseFinalizing:        PhaseIdle,
}

type DetectorResult struct {
	Detector  Detector
	Windows   int
	Segmented bool
	Shift     TimeDelta
	Digits    DigitStats
	Tracks    TrackStats
}

type Result struct {
	EventNumber int
	ID          DetectorResult
	OD          *DetectorResult
	Duration    time.Duration
}

// Segmenter splits raw events into one sub-event per trigger window. A
// Segmenter processes one event at a time; run one per goroutine to process
// events in parallel.
type Segmenter struct {
	opts      Options
	metrics   *Metrics
	phase     Phase
	rebaser   TimeRebaser
	digits    map[Detector]*DigitClassifier
	tracks    TrackClassifier
	finalizer SubEventFinalizer
}

func NewSegmenter(opts Options, geometry Geometry, metrics *Metrics) *Segmenter {
	return &Segmenter{
		opts:    opts,
		metrics: metrics,
		phase:   PhaseIdle,
		rebaser: TimeRebaser{opts: opts},
		digits: map[Detector]*DigitClassifier{
			InnerDetector: NewDigitClassifier(opts, geometry.IDNPMTs),
			OuterDetector: NewDigitClassifier(opts, geometry.ODNPMTs),
		},
		tracks: TrackClassifier{opts: opts},
	}
}

func (s *Segmenter) Phase() Phase { return s.phase }

func (s *Segmenter) advance(to Phase) error {
	if nextPhase[s.phase] != to {
		return fmt.Errorf("cannot go from %v to %v: %w", s.phase, to, ErrPhaseOrder)
	}
	s.phase = to
	return nil
}

// idle ends the current pass. Channel usage never outlives an event.
func (s *Segmenter) idle(classifier *DigitClassifier) {
	s.phase = PhaseIdle
	classifier.Reset()
}

// Process segments the inner detector and, if present, the outer detector of
// raw. Both use the merged list of inner and outer trigger windows.
func (s *Segmenter) Process(raw *RawEvent) (Result, error) {
	start := time.Now()
	result := Result{EventNumber: raw.EventNumber}
	cat := raw.Catalog()

	if s.opts.Verbosity > 0 {
		message := fmt.Sprintf("Event %d: have %d triggers to save times:", raw.EventNumber, cat.Len())
		logger.Info(message, "segmenter")
		for i := 0; i < cat.Len(); i++ {
			logger.Info(fmt.Sprintf("\t%v", cat.Window(i)), "segmenter")
		}
	}

	if raw.ID == nil {
		return result, fmt.Errorf("event %d has no inner detector readout", raw.EventNumber)
	}
	id, err := s.Segment(InnerDetector, raw.ID, cat, raw.EventNumber)
	if err != nil {
		return result, fmt.Errorf("error segmenting %v of event %d: %w", InnerDetector, raw.EventNumber, err)
	}
	result.ID = id

	if raw.OD != nil {
		od, err := s.Segment(OuterDetector, raw.OD, cat, raw.EventNumber)
		if err != nil {
			return result, fmt.Errorf("error segmenting %v of event %d: %w", OuterDetector, raw.EventNumber, err)
		}
		result.OD = &od
	}

	result.Duration = time.Since(start)
	s.metrics.ObserveEvent(result)
	return result, nil
}

// Segment runs one full pass over the readout of one detector:
// rebase, classify digits, classify tracks, finalize.
func (s *Segmenter) Segment(det Detector, ev *Event, cat *TriggerCatalog, eventNumber int) (DetectorResult, error) {
	result := DetectorResult{Detector: det, Windows: cat.Len()}
	if s.phase != PhaseIdle {
		return result, fmt.Errorf("segmenter busy in phase %v: %w", s.phase, ErrPhaseOrder)
	}
	classifier, ok := s.digits[det]
	if !ok {
		return result, fmt.Errorf("unknown detector %v", det)
	}
	defer s.idle(classifier)

	if cat.Len() == 0 {
		if s.opts.Verbosity > 0 {
			message := fmt.Sprintf("No trigger windows for %v of event %d, leaving it unsegmented", det, eventNumber)
			logger.Info(message, "segmenter")
		}
		return result, nil
	}

	var err error
	if err = s.advance(PhaseRebasing); err != nil {
		return result, err
	}
	if result.Shift, err = s.rebaser.Rebase(ev, cat, eventNumber); err != nil {
		return result, err
	}

	if err = s.advance(PhaseClassifyingDigits); err != nil {
		return result, err
	}
	if result.Digits, err = classifier.Classify(ev, cat); err != nil {
		return result, err
	}

	if err = s.advance(PhaseClassifyingTracks); err != nil {
		return result, err
	}
	if result.Tracks, err = s.tracks.Classify(ev, cat); err != nil {
		return result, err
	}

	if err = s.advance(PhaseFinalizing); err != nil {
		return result, err
	}
	s.finalizer.Finalize(ev, cat.Len())

	if err = s.advance(PhaseIdle); err != nil {
		return result, err
	}
	result.Segmented = true
	return result, nil
}
