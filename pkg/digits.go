package segmenter

import "fmt"

type DigitStats struct {
	Before  int
	After   int
	Moved   int
	Dropped int
}

// DigitClassifier distributes the digits of sub-event 0 into the sub-event of
// the earliest trigger window containing them. It owns the per-channel usage
// of the event being classified.
type DigitClassifier struct {
	opts  Options
	usage ChannelUsage
}

func NewDigitClassifier(opts Options, nChannels int) *DigitClassifier {
	return &DigitClassifier{
		opts:  opts,
		usage: NewChannelUsage(nChannels),
	}
}

func (c *DigitClassifier) Usage() ChannelUsage { return c.usage }

func (c *DigitClassifier) Reset() { c.usage.Reset() }

// capActive reports whether a tube may only give one digit per window.
func (c *DigitClassifier) capActive() bool {
	return !c.opts.SaveMultipleDigitsPerTrigger
}

// Classify must run after Rebase: it reads digit times relative to the
// trigger time of window 0 and expects one sub-event per window.
func (c *DigitClassifier) Classify(ev *Event, cat *TriggerCatalog) (DigitStats, error) {
	trig0 := ev.SubEvent(0)
	stats := DigitStats{Before: trig0.NumDigits()}
	if cat.Len() == 0 {
		if c.opts.Verbosity > 0 {
			logger.Info("No trigger intervals to save", "digits")
		}
		stats.After = stats.Before
		return stats, nil
	}
	if ev.NumSubEvents() != cat.Len() {
		return stats, fmt.Errorf("event has %d sub-events for %d trigger windows: %w",
			ev.NumSubEvents(), cat.Len(), ErrPhaseOrder)
	}

	for _, d := range trig0.Digits() {
		absTime := d.Time + trig0.Header.Date
		match := cat.Find(absTime)
		window, found := match.Index()
		if c.opts.Verbosity > 2 {
			message := fmt.Sprintf("Digit at time %v belongs to trigger %v", d.Time, match)
			logger.Info(message, "digits")
		}

		if c.opts.SaveOnlyFailedDigits {
			// Keep only digits outside every trigger window
			if found {
				trig0.RemoveDigit(d)
				stats.Dropped++
			}
			continue
		}

		duplicate := found && c.capActive() && c.usage.Used(d.TubeID, window)
		switch {
		case found && window > 0 && !duplicate:
			dest := ev.SubEvent(window)
			newTime := d.Time + (trig0.Header.Date - dest.Header.Date)
			if c.opts.Verbosity > 2 {
				message := fmt.Sprintf("Adding digit to trigger %d at new time %v", window, newTime)
				logger.Info(message, "digits")
			}
			if err := ev.MoveDigit(d, window, newTime); err != nil {
				return stats, err
			}
			stats.Moved++
		case !found || window > 0 || duplicate:
			trig0.RemoveDigit(d)
			stats.Dropped++
		}

		if found {
			c.usage.Mark(d.TubeID, window)
		}
	}

	stats.After = trig0.NumDigits()
	if c.opts.Verbosity > 0 {
		message := fmt.Sprintf("Reduced number of digits in the 0th trigger from %d to %d", stats.Before, stats.After)
		logger.Info(message, "digits")
	}
	return stats, nil
}
