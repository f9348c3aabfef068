package segmenter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

const maxLineSize = 256 * 1024 * 1024

type digitRecord struct {
	TubeID int     `json:"tube"`
	Time   float64 `json:"t"`
	Charge float64 `json:"q"`
}

type trackRecord struct {
	Time     float64 `json:"t"`
	PDG      int     `json:"pdg"`
	ParentID int     `json:"parent"`
	Energy   float64 `json:"e"`
}

type detectorRecord struct {
	Digits []*digitRecord `json:"digits"`
	Tracks []*trackRecord `json:"tracks"`
}

type triggerRecord struct {
	Start float64     `json:"start"`
	End   float64     `json:"end"`
	Time  float64     `json:"time"`
	Type  TriggerType `json:"type"`
	Info  []float64   `json:"info"`
}

// eventRecord is one line of the input file. Times are in ns.
type eventRecord struct {
	Event      int              `json:"event"`
	File       string           `json:"file"`
	Date       float64          `json:"date"`
	ID         *detectorRecord  `json:"id"`
	OD         *detectorRecord  `json:"od"`
	IDTriggers []*triggerRecord `json:"id_triggers"`
	ODTriggers []*triggerRecord `json:"od_triggers"`
}

func (r *detectorRecord) toEvent(date TimeDelta) *Event {
	ev := NewEvent(date)
	trig0 := ev.SubEvent(0)
	for _, d := range r.Digits {
		// null entries are empty slots
		if d == nil {
			continue
		}
		trig0.AddDigit(&Digit{TubeID: d.TubeID, Time: NewTimeDeltaNs(d.Time), Charge: d.Charge})
	}
	for _, t := range r.Tracks {
		if t == nil {
			continue
		}
		trig0.AddTrack(&Track{Time: NewTimeDeltaNs(t.Time), PDG: t.PDG, ParentID: t.ParentID, Energy: t.Energy})
	}
	return ev
}

func toCatalog(records []*triggerRecord) *TriggerCatalog {
	catalog := NewTriggerCatalog()
	for _, t := range records {
		if t == nil {
			continue
		}
		catalog.Add(TriggerWindow{
			ReadoutStart: NewTimeDeltaNs(t.Start),
			ReadoutEnd:   NewTimeDeltaNs(t.End),
			TriggerTime:  NewTimeDeltaNs(t.Time),
			Type:         t.Type,
			Info:         t.Info,
		})
	}
	return catalog
}

func (r *eventRecord) toRawEvent(eventNumber int, sourceFile string) *RawEvent {
	date := NewTimeDeltaNs(r.Date)
	raw := &RawEvent{
		EventNumber:       eventNumber,
		SourceFile:        r.File,
		SourceEventNumber: r.Event,
		IDTriggers:        toCatalog(r.IDTriggers),
		ODTriggers:        toCatalog(r.ODTriggers),
	}
	if raw.SourceFile == "" {
		raw.SourceFile = sourceFile
	}
	if r.ID != nil {
		raw.ID = r.ID.toEvent(date)
	} else {
		raw.ID = NewEvent(date)
	}
	if r.OD != nil {
		raw.OD = r.OD.toEvent(date)
	}
	return raw
}

// EventReader reads raw events, one JSON document per line. Blank lines are
// ignored. Output event numbers count the events returned, starting at 0.
type EventReader struct {
	scanner   *bufio.Scanner
	filename  string
	skip      int
	maxEvents int
	line      int
	EvtCount  int
	returned  int
}

func NewEventReader(r io.Reader, filename string, skip int, maxEvents int) *EventReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &EventReader{
		scanner:   scanner,
		filename:  filename,
		skip:      skip,
		maxEvents: maxEvents,
		EvtCount:  -1,
	}
}

func (f *EventReader) nextRecord() (*eventRecord, error) {
	for f.scanner.Scan() {
		f.line++
		data := bytes.TrimSpace(f.scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		record := &eventRecord{}
		if err := json.Unmarshal(data, record); err != nil {
			return nil, &ErrDecodeEvent{Line: f.line, Err: err}
		}
		return record, nil
	}
	if err := f.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", f.filename, err)
	}
	return nil, io.EOF
}

// Next returns the next event to process, or io.EOF once the input or the
// configured number of events is exhausted.
func (f *EventReader) Next() (*RawEvent, error) {
	for {
		record, err := f.nextRecord()
		if err != nil {
			return nil, err
		}
		f.EvtCount++
		if f.EvtCount >= f.maxEvents {
			if f.maxEvents > 0 {
				logger.Info("Max events reached", "reader")
			}
			return nil, io.EOF
		}
		if f.EvtCount < f.skip {
			continue
		}
		raw := record.toRawEvent(f.returned, f.filename)
		f.returned++
		return raw, nil
	}
}

// CountEvents counts the non-empty lines of r.
func CountEvents(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	count := 0
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			count++
		}
	}
	return count, scanner.Err()
}
