package segmenter

import (
	"strings"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, module+": "+message)
}

func (l *recordingLogger) Warn(message string, module string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, module+": "+message)
}

func (l *recordingLogger) Error(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, message)
}

func (l *recordingLogger) contains(lines []string, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// useRecordingLogger installs a recording logger for the duration of the test.
func useRecordingLogger(t *testing.T) *recordingLogger {
	t.Helper()
	l := &recordingLogger{}
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })
	return l
}

func ns(v float64) TimeDelta {
	return NewTimeDeltaNs(v)
}

func window(start, end, trigger float64) TriggerWindow {
	return TriggerWindow{
		ReadoutStart: ns(start),
		ReadoutEnd:   ns(end),
		TriggerTime:  ns(trigger),
		Type:         TriggerNDigits,
	}
}

// newEventWithDigits builds an unsegmented event with one digit per time.
func newEventWithDigits(date float64, times []float64, tubes []int, charges []float64) (*Event, []*Digit) {
	ev := NewEvent(ns(date))
	digits := make([]*Digit, len(times))
	for i := range times {
		digits[i] = &Digit{TubeID: tubes[i], Time: ns(times[i]), Charge: charges[i]}
		ev.SubEvent(0).AddDigit(digits[i])
	}
	return ev, digits
}

func absoluteTimes(trig *SubEvent) []TimeDelta {
	times := []TimeDelta{}
	for _, d := range trig.Digits() {
		times = append(times, d.Time+trig.Header.Date)
	}
	return times
}
