package segmenter

type Detector int

const (
	InnerDetector Detector = iota
	OuterDetector
)

func (d Detector) String() string {
	switch d {
	case InnerDetector:
		return "ID"
	case OuterDetector:
		return "OD"
	default:
		return "Unknown"
	}
}

// Digit is one digitised PMT signal. Time is relative to the date of the
// sub-event that currently holds it.
type Digit struct {
	TubeID int
	Time   TimeDelta
	Charge float64
}

// Track is a true particle track. Only Time takes part in segmentation.
type Track struct {
	Time     TimeDelta
	PDG      int
	ParentID int
	Energy   float64
}

type SubEventHeader struct {
	EventNumber   int
	Window        int
	Date          TimeDelta
	TriggerType   TriggerType
	TriggerInfo   []float64
	TriggerOffset TimeDelta
	Mode          int
}

// SubEvent holds the digits and tracks of one trigger window. Records live in
// slots; removing a record empties its slot so that slot positions of the
// remaining records never change.
type SubEvent struct {
	Header            SubEventHeader
	SumQ              float64
	NumDigitizedTubes int

	digits     []*Digit
	digitSlots map[*Digit]int
	nDigits    int
	tracks     []*Track
	trackSlots map[*Track]int
	nTracks    int
}

func newSubEvent() *SubEvent {
	return &SubEvent{
		digitSlots: make(map[*Digit]int),
		trackSlots: make(map[*Track]int),
	}
}

func (s *SubEvent) AddDigit(d *Digit) {
	if d == nil {
		return
	}
	if _, ok := s.digitSlots[d]; ok {
		return
	}
	s.digitSlots[d] = len(s.digits)
	s.digits = append(s.digits, d)
	s.nDigits++
}

// RemoveDigit empties the slot holding d. It reports whether d was present.
func (s *SubEvent) RemoveDigit(d *Digit) bool {
	slot, ok := s.digitSlots[d]
	if !ok {
		return false
	}
	s.digits[slot] = nil
	delete(s.digitSlots, d)
	s.nDigits--
	return true
}

func (s *SubEvent) HasDigit(d *Digit) bool {
	_, ok := s.digitSlots[d]
	return ok
}

// Digits returns the live digits in slot order. The returned slice is a
// snapshot and may be iterated while the sub-event is modified.
func (s *SubEvent) Digits() []*Digit {
	live := make([]*Digit, 0, s.nDigits)
	for _, d := range s.digits {
		if d != nil {
			live = append(live, d)
		}
	}
	return live
}

func (s *SubEvent) NumDigits() int     { return s.nDigits }
func (s *SubEvent) NumDigitSlots() int { return len(s.digits) }

// DigitAt returns the digit in slot i, or nil for an empty slot.
func (s *SubEvent) DigitAt(i int) *Digit { return s.digits[i] }

func (s *SubEvent) AddTrack(t *Track) {
	if t == nil {
		return
	}
	if _, ok := s.trackSlots[t]; ok {
		return
	}
	s.trackSlots[t] = len(s.tracks)
	s.tracks = append(s.tracks, t)
	s.nTracks++
}

func (s *SubEvent) RemoveTrack(t *Track) bool {
	slot, ok := s.trackSlots[t]
	if !ok {
		return false
	}
	s.tracks[slot] = nil
	delete(s.trackSlots, t)
	s.nTracks--
	return true
}

func (s *SubEvent) HasTrack(t *Track) bool {
	_, ok := s.trackSlots[t]
	return ok
}

func (s *SubEvent) Tracks() []*Track {
	live := make([]*Track, 0, s.nTracks)
	for _, t := range s.tracks {
		if t != nil {
			live = append(live, t)
		}
	}
	return live
}

func (s *SubEvent) NumTracks() int     { return s.nTracks }
func (s *SubEvent) NumTrackSlots() int { return len(s.tracks) }

// Event is the readout of one detector. Sub-event 0 always exists; on input it
// holds every record and its date is the original time origin of the readout.
type Event struct {
	subEvents []*SubEvent
}

func NewEvent(date TimeDelta) *Event {
	first := newSubEvent()
	first.Header.Date = date
	return &Event{subEvents: []*SubEvent{first}}
}

func (e *Event) NumSubEvents() int { return len(e.subEvents) }

func (e *Event) SubEvent(i int) *SubEvent {
	if i < 0 || i >= len(e.subEvents) {
		return nil
	}
	return e.subEvents[i]
}

func (e *Event) AddSubEvent() *SubEvent {
	s := newSubEvent()
	e.subEvents = append(e.subEvents, s)
	return s
}

// MoveDigit transfers d from sub-event 0 to sub-event to and stores newTime
// as its time. d is left untouched if it is not in sub-event 0.
func (e *Event) MoveDigit(d *Digit, to int, newTime TimeDelta) error {
	dest := e.SubEvent(to)
	if dest == nil {
		return &ErrWindowIndex{Index: to, Count: len(e.subEvents)}
	}
	if !e.subEvents[0].RemoveDigit(d) {
		return nil
	}
	d.Time = newTime
	dest.AddDigit(d)
	return nil
}

// MoveTrack transfers t from sub-event 0 to sub-event to. The track time is
// kept relative to the date of sub-event 0.
func (e *Event) MoveTrack(t *Track, to int) error {
	dest := e.SubEvent(to)
	if dest == nil {
		return &ErrWindowIndex{Index: to, Count: len(e.subEvents)}
	}
	if !e.subEvents[0].RemoveTrack(t) {
		return nil
	}
	dest.AddTrack(t)
	return nil
}

// RawEvent is one entry of the input: inner detector readout, optional outer
// detector readout and the trigger windows found in each.
type RawEvent struct {
	EventNumber       int
	SourceFile        string
	SourceEventNumber int
	ID                *Event
	OD                *Event
	IDTriggers        *TriggerCatalog
	ODTriggers        *TriggerCatalog
}

// Catalog merges the inner and outer detector trigger windows, inner first.
func (r *RawEvent) Catalog() *TriggerCatalog {
	c := NewTriggerCatalog()
	c.AddTriggers(r.IDTriggers)
	if r.OD != nil {
		c.AddTriggers(r.ODTriggers)
	}
	return c
}

func (r *RawEvent) Detector(d Detector) *Event {
	switch d {
	case InnerDetector:
		return r.ID
	case OuterDetector:
		return r.OD
	}
	return nil
}
