package segmenter

type SubEventRow struct {
	EventNumber       int
	Detector          Detector
	Window            int
	TriggerTime       float64
	TriggerType       TriggerType
	TriggerOffset     float64
	Mode              int
	SumQ              float64
	NumDigitizedTubes int
	NumTracks         int
}

type TriggerInfoRow struct {
	EventNumber int
	Detector    Detector
	Window      int
	Index       int
	Value       float64
}

type DigitRow struct {
	EventNumber int
	Window      int
	TubeID      int
	Time        float64
	Charge      float64
}

type TrackRow struct {
	EventNumber int
	Window      int
	PDG         int
	ParentID    int
	Energy      float64
	Time        float64
}

type SourceRow struct {
	EventNumber       int
	SourceFile        string
	SourceEventNumber int
}

type DetectorRows struct {
	SubEvents   []SubEventRow
	TriggerInfo []TriggerInfoRow
	Digits      []DigitRow
	Tracks      []TrackRow
}

// FlatEvent is a segmented raw event laid out as table rows. Times are in ns,
// digit times relative to their sub-event date.
type FlatEvent struct {
	Source SourceRow
	ID     DetectorRows
	OD     *DetectorRows
}

func Flatten(raw *RawEvent) FlatEvent {
	flat := FlatEvent{
		Source: SourceRow{
			EventNumber:       raw.EventNumber,
			SourceFile:        raw.SourceFile,
			SourceEventNumber: raw.SourceEventNumber,
		},
	}
	if raw.ID != nil {
		flat.ID = flattenDetector(raw.EventNumber, InnerDetector, raw.ID)
	}
	if raw.OD != nil {
		od := flattenDetector(raw.EventNumber, OuterDetector, raw.OD)
		flat.OD = &od
	}
	return flat
}

func flattenDetector(eventNumber int, det Detector, ev *Event) DetectorRows {
	rows := DetectorRows{}
	for i := 0; i < ev.NumSubEvents(); i++ {
		trig := ev.SubEvent(i)
		h := trig.Header
		rows.SubEvents = append(rows.SubEvents, SubEventRow{
			EventNumber:       eventNumber,
			Detector:          det,
			Window:            i,
			TriggerTime:       h.Date.Ns(),
			TriggerType:       h.TriggerType,
			TriggerOffset:     h.TriggerOffset.Ns(),
			Mode:              h.Mode,
			SumQ:              trig.SumQ,
			NumDigitizedTubes: trig.NumDigitizedTubes,
			NumTracks:         trig.NumTracks(),
		})
		for j, v := range h.TriggerInfo {
			rows.TriggerInfo = append(rows.TriggerInfo, TriggerInfoRow{
				EventNumber: eventNumber,
				Detector:    det,
				Window:      i,
				Index:       j,
				Value:       v,
			})
		}
		for _, d := range trig.Digits() {
			rows.Digits = append(rows.Digits, DigitRow{
				EventNumber: eventNumber,
				Window:      i,
				TubeID:      d.TubeID,
				Time:        d.Time.Ns(),
				Charge:      d.Charge,
			})
		}
		for _, t := range trig.Tracks() {
			rows.Tracks = append(rows.Tracks, TrackRow{
				EventNumber: eventNumber,
				Window:      i,
				PDG:         t.PDG,
				ParentID:    t.ParentID,
				Energy:      t.Energy,
				Time:        t.Time.Ns(),
			})
		}
	}
	return rows
}
