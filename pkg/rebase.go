package segmenter

import "fmt"

type TimeRebaser struct {
	opts Options
}

// Rebase moves the time origin of sub-event 0 from its original date to the
// trigger time of window 0, shifting every digit of sub-event 0 so that its
// absolute time is unchanged. It then creates one sub-event per additional
// window and stamps every header. It returns the applied shift.
func (r TimeRebaser) Rebase(ev *Event, cat *TriggerCatalog, eventNumber int) (TimeDelta, error) {
	n := cat.Len()
	if n == 0 {
		return 0, nil
	}
	if ev.NumSubEvents() != 1 {
		return 0, fmt.Errorf("rebase needs an unsegmented event, got %d sub-events: %w",
			ev.NumSubEvents(), ErrPhaseOrder)
	}

	trig0 := ev.SubEvent(0)
	oldTime := trig0.Header.Date
	newTime := cat.Window(0).TriggerTime
	shift := newTime - oldTime
	if r.opts.Verbosity > 1 {
		message := fmt.Sprintf("Trigger date shift from %v to %v: %v", oldTime, newTime, shift)
		logger.Info(message, "rebase")
	}

	// If the origin moves forward by shift, relative times move back by shift.
	for i := 0; i < trig0.NumDigitSlots(); i++ {
		d := trig0.DigitAt(i)
		if d == nil {
			continue
		}
		if r.opts.Verbosity > 2 {
			message := fmt.Sprintf("Digit time before shift: %v, after shift: %v", d.Time, d.Time-shift)
			logger.Info(message, "rebase")
		}
		d.Time -= shift
	}

	for i := 0; i < n; i++ {
		trig := trig0
		if i > 0 {
			trig = ev.AddSubEvent()
		}
		w := cat.Window(i)
		trig.Header = SubEventHeader{
			EventNumber:   eventNumber,
			Window:        i,
			Date:          w.TriggerTime,
			TriggerType:   w.Type,
			TriggerInfo:   w.Info,
			TriggerOffset: r.opts.TriggerOffset,
			Mode:          0,
		}
	}
	return shift, nil
}
