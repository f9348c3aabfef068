package segmenter

import "fmt"

type TrackStats struct {
	Before    int
	After     int
	Moved     int
	Fallbacks int
}

// TrackClassifier redistributes the tracks of sub-event 0. Unlike digits,
// tracks are never deleted: a track belongs to the first window that has not
// ended yet, or to the last window.
type TrackClassifier struct {
	opts Options
}

func (c TrackClassifier) Classify(ev *Event, cat *TriggerCatalog) (TrackStats, error) {
	trig0 := ev.SubEvent(0)
	stats := TrackStats{Before: trig0.NumTracks()}
	n := cat.Len()
	if n < 2 {
		stats.After = stats.Before
		return stats, nil
	}
	if ev.NumSubEvents() != n {
		return stats, fmt.Errorf("event has %d sub-events for %d trigger windows: %w",
			ev.NumSubEvents(), n, ErrPhaseOrder)
	}

	for _, t := range trig0.Tracks() {
		absTime := t.Time + trig0.Header.Date
		window, fallback := cat.FindNoDelete(absTime)
		if fallback {
			message := fmt.Sprintf("Could not find a trigger that track with time %v can live in. Returning maximum trigger number %d",
				absTime, window)
			logger.Warn(message, "tracks")
			stats.Fallbacks++
		}
		if window > 0 {
			if c.opts.Verbosity > 2 {
				message := fmt.Sprintf("Moving track from 0th to %d trigger", window)
				logger.Info(message, "tracks")
			}
			if err := ev.MoveTrack(t, window); err != nil {
				return stats, err
			}
			stats.Moved++
		}
	}

	stats.After = trig0.NumTracks()
	if c.opts.Verbosity > 0 {
		message := fmt.Sprintf("Reduced number of tracks in the 0th trigger from %d to %d", stats.Before, stats.After)
		logger.Info(message, "tracks")
	}
	return stats, nil
}
