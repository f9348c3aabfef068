package writer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmbenlloch/go-hdf5"
	segmenter "github.com/next-exp/segmenter_go/pkg"
)

type Options struct {
	CompressionLevel int
	RunNumber        int
	ProductionID     uuid.UUID
}

type detectorTables struct {
	Group  *hdf5.Group
	Digits *hdf5.Dataset
	Tracks *hdf5.Dataset
}

// Writer stores segmented events in an HDF5 file. Detector groups are created
// when the first event holding that detector is written.
type Writer struct {
	File             *hdf5.File
	Filename         string
	opts             Options
	RunGroup         *hdf5.Group
	EventsGroup      *hdf5.Group
	RunInfoTable     *hdf5.Dataset
	SubEventTable    *hdf5.Dataset
	TriggerInfoTable *hdf5.Dataset
	SourceTable      *hdf5.Dataset
	detectors        map[segmenter.Detector]*detectorTables
	EvtCounter       int
}

func NewWriter(filename string, opts Options) (*Writer, error) {
	writer := &Writer{
		Filename:  filename,
		opts:      opts,
		detectors: make(map[segmenter.Detector]*detectorTables),
	}
	var err error
	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.EventsGroup, err = createGroup(writer.File, "Events"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	level := opts.CompressionLevel
	if writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}, level); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.SubEventTable, err = createTable(writer.EventsGroup, "subevents", SubEventHDF5{}, level); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.TriggerInfoTable, err = createTable(writer.EventsGroup, "triggerInfo", TriggerInfoHDF5{}, level); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	if writer.SourceTable, err = createTable(writer.EventsGroup, "source", SourceHDF5{}, level); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	return writer, nil
}

func (w *Writer) detectorTables(det segmenter.Detector) (*detectorTables, error) {
	if tables, ok := w.detectors[det]; ok {
		return tables, nil
	}
	var err error
	tables := &detectorTables{}
	if tables.Group, err = createGroup(w.File, det.String()); err != nil {
		return nil, err
	}
	w.detectors[det] = tables
	if tables.Digits, err = createTable(tables.Group, "digits", DigitHDF5{}, w.opts.CompressionLevel); err != nil {
		return nil, err
	}
	if tables.Tracks, err = createTable(tables.Group, "tracks", TrackHDF5{}, w.opts.CompressionLevel); err != nil {
		return nil, err
	}
	return tables, nil
}

func (w *Writer) WriteEvent(flat segmenter.FlatEvent) error {
	source := SourceHDF5{
		evt_number:    int32(flat.Source.EventNumber),
		source_file:   convertToHdf5String(flat.Source.SourceFile),
		source_number: int32(flat.Source.SourceEventNumber),
	}
	if err := writeEntryToTable(w.SourceTable, source); err != nil {
		return fmt.Errorf("error writing source of event %d: %w", flat.Source.EventNumber, err)
	}

	if err := w.writeDetector(segmenter.InnerDetector, flat.ID); err != nil {
		return err
	}
	if flat.OD != nil {
		if err := w.writeDetector(segmenter.OuterDetector, *flat.OD); err != nil {
			return err
		}
	}
	w.EvtCounter++
	return nil
}

func (w *Writer) writeDetector(det segmenter.Detector, rows segmenter.DetectorRows) error {
	tables, err := w.detectorTables(det)
	if err != nil {
		return err
	}

	subEvents := make([]SubEventHDF5, len(rows.SubEvents))
	for i, r := range rows.SubEvents {
		subEvents[i] = SubEventHDF5{
			evt_number:     int32(r.EventNumber),
			detector:       int32(r.Detector),
			window:         int32(r.Window),
			trigger_time:   r.TriggerTime,
			trigger_type:   int32(r.TriggerType),
			trigger_offset: r.TriggerOffset,
			mode:           int32(r.Mode),
			sum_q:          r.SumQ,
			n_digi_tubes:   int32(r.NumDigitizedTubes),
			n_tracks:       int32(r.NumTracks),
		}
	}
	if err := writeArrayToTable(w.SubEventTable, &subEvents); err != nil {
		return fmt.Errorf("error writing %v sub-events: %w", det, err)
	}

	info := make([]TriggerInfoHDF5, len(rows.TriggerInfo))
	for i, r := range rows.TriggerInfo {
		info[i] = TriggerInfoHDF5{
			evt_number: int32(r.EventNumber),
			detector:   int32(r.Detector),
			window:     int32(r.Window),
			index:      int32(r.Index),
			value:      r.Value,
		}
	}
	if err := writeArrayToTable(w.TriggerInfoTable, &info); err != nil {
		return fmt.Errorf("error writing %v trigger info: %w", det, err)
	}

	digits := make([]DigitHDF5, len(rows.Digits))
	for i, r := range rows.Digits {
		digits[i] = DigitHDF5{
			evt_number: int32(r.EventNumber),
			window:     int32(r.Window),
			tube:       int32(r.TubeID),
			time:       r.Time,
			charge:     r.Charge,
		}
	}
	if err := writeArrayToTable(tables.Digits, &digits); err != nil {
		return fmt.Errorf("error writing %v digits: %w", det, err)
	}

	tracks := make([]TrackHDF5, len(rows.Tracks))
	for i, r := range rows.Tracks {
		tracks[i] = TrackHDF5{
			evt_number: int32(r.EventNumber),
			window:     int32(r.Window),
			pdg:        int32(r.PDG),
			parent_id:  int32(r.ParentID),
			energy:     r.Energy,
			time:       r.Time,
		}
	}
	if err := writeArrayToTable(tables.Tracks, &tracks); err != nil {
		return fmt.Errorf("error writing %v tracks: %w", det, err)
	}
	return nil
}

func (w *Writer) writeRunInfo() error {
	var production [UUIDLEN]byte
	copy(production[:], w.opts.ProductionID.String())
	return writeEntryToTable(w.RunInfoTable, RunInfoHDF5{
		run_number:    int32(w.opts.RunNumber),
		n_events:      int32(w.EvtCounter),
		production_id: production,
	})
}

// Close writes the run information and closes every table, group and the
// file. It is safe to call on a partially created Writer.
func (w *Writer) Close() error {
	var errs []error
	if w.RunInfoTable != nil {
		if err := w.writeRunInfo(); err != nil {
			errs = append(errs, fmt.Errorf("error writing run info: %w", err))
		}
	}

	closeDataset := func(d *hdf5.Dataset, name string) {
		if d == nil {
			return
		}
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", name, err))
		}
	}
	closeGroup := func(g *hdf5.Group, name string) {
		if g == nil {
			return
		}
		if err := g.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s group: %w", name, err))
		}
	}

	closeDataset(w.RunInfoTable, "run info table")
	closeDataset(w.SubEventTable, "sub-event table")
	closeDataset(w.TriggerInfoTable, "trigger info table")
	closeDataset(w.SourceTable, "source table")
	for det, tables := range w.detectors {
		closeDataset(tables.Digits, det.String()+" digits")
		closeDataset(tables.Tracks, det.String()+" tracks")
		closeGroup(tables.Group, det.String())
	}
	closeGroup(w.RunGroup, "run")
	closeGroup(w.EventsGroup, "events")
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
