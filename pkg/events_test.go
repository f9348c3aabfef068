package segmenter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubEventSlots(t *testing.T) {
	trig := newSubEvent()
	a := &Digit{TubeID: 1}
	b := &Digit{TubeID: 2}
	c := &Digit{TubeID: 3}
	trig.AddDigit(a)
	trig.AddDigit(b)
	trig.AddDigit(c)
	trig.AddDigit(b)
	trig.AddDigit(nil)

	assert.Equal(t, 3, trig.NumDigits())
	assert.Equal(t, 3, trig.NumDigitSlots())

	assert.True(t, trig.RemoveDigit(b))
	assert.False(t, trig.RemoveDigit(b))
	assert.False(t, trig.HasDigit(b))

	// removal leaves an empty slot, the other digits keep their position
	assert.Equal(t, 2, trig.NumDigits())
	assert.Equal(t, 3, trig.NumDigitSlots())
	assert.Same(t, a, trig.DigitAt(0))
	assert.Nil(t, trig.DigitAt(1))
	assert.Same(t, c, trig.DigitAt(2))
	assert.Equal(t, []*Digit{a, c}, trig.Digits())
}

func TestSubEventDigitsIsSnapshot(t *testing.T) {
	trig := newSubEvent()
	for i := 0; i < 4; i++ {
		trig.AddDigit(&Digit{TubeID: i})
	}
	visited := 0
	for _, d := range trig.Digits() {
		trig.RemoveDigit(d)
		visited++
	}
	assert.Equal(t, 4, visited)
	assert.Equal(t, 0, trig.NumDigits())
	assert.Empty(t, trig.Digits())
}

func TestSubEventTracks(t *testing.T) {
	trig := newSubEvent()
	a := &Track{PDG: 11}
	b := &Track{PDG: 13}
	trig.AddTrack(a)
	trig.AddTrack(b)
	trig.AddTrack(a)
	assert.Equal(t, 2, trig.NumTracks())

	assert.True(t, trig.RemoveTrack(a))
	assert.False(t, trig.HasTrack(a))
	assert.True(t, trig.HasTrack(b))
	assert.Equal(t, 1, trig.NumTracks())
	assert.Equal(t, 2, trig.NumTrackSlots())
	assert.Equal(t, []*Track{b}, trig.Tracks())
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(ns(42))
	require.Equal(t, 1, ev.NumSubEvents())
	assert.Equal(t, ns(42), ev.SubEvent(0).Header.Date)
	assert.Nil(t, ev.SubEvent(1))
	assert.Nil(t, ev.SubEvent(-1))

	s := ev.AddSubEvent()
	assert.Equal(t, 2, ev.NumSubEvents())
	assert.Same(t, s, ev.SubEvent(1))
}

func TestMoveDigit(t *testing.T) {
	ev, digits := newEventWithDigits(0, []float64{1, 2}, []int{1, 2}, []float64{1, 1})
	ev.AddSubEvent()

	require.NoError(t, ev.MoveDigit(digits[1], 1, ns(-8)))
	assert.False(t, ev.SubEvent(0).HasDigit(digits[1]))
	assert.True(t, ev.SubEvent(1).HasDigit(digits[1]))
	assert.Equal(t, ns(-8), digits[1].Time)

	// a digit no longer in sub-event 0 is left alone
	require.NoError(t, ev.MoveDigit(digits[1], 1, ns(100)))
	assert.Equal(t, ns(-8), digits[1].Time)
	assert.Equal(t, 1, ev.SubEvent(1).NumDigits())
}

func TestMoveDigitMissingWindow(t *testing.T) {
	ev, digits := newEventWithDigits(0, []float64{1}, []int{1}, []float64{1})

	err := ev.MoveDigit(digits[0], 3, 0)
	var indexErr *ErrWindowIndex
	require.True(t, errors.As(err, &indexErr))
	assert.Equal(t, 3, indexErr.Index)
	assert.Equal(t, 1, indexErr.Count)
	// nothing was removed
	assert.True(t, ev.SubEvent(0).HasDigit(digits[0]))
	assert.Equal(t, ns(1), digits[0].Time)
}

func TestMoveTrack(t *testing.T) {
	ev := NewEvent(0)
	track := &Track{Time: ns(30)}
	ev.SubEvent(0).AddTrack(track)

	assert.Error(t, ev.MoveTrack(track, 1))
	ev.AddSubEvent()
	require.NoError(t, ev.MoveTrack(track, 1))
	assert.Equal(t, 0, ev.SubEvent(0).NumTracks())
	assert.True(t, ev.SubEvent(1).HasTrack(track))
	assert.Equal(t, ns(30), track.Time)
}

func TestRawEventCatalog(t *testing.T) {
	raw := &RawEvent{
		ID:         NewEvent(0),
		IDTriggers: NewTriggerCatalog(window(0, 10, 5)),
		ODTriggers: NewTriggerCatalog(window(20, 30, 25)),
	}
	// outer detector windows only count when the outer detector was read out
	assert.Equal(t, 1, raw.Catalog().Len())

	raw.OD = NewEvent(0)
	cat := raw.Catalog()
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, ns(5), cat.Window(0).TriggerTime)
	assert.Equal(t, ns(25), cat.Window(1).TriggerTime)

	assert.Same(t, raw.ID, raw.Detector(InnerDetector))
	assert.Same(t, raw.OD, raw.Detector(OuterDetector))
	assert.Nil(t, raw.Detector(Detector(7)))
}

func TestDetectorString(t *testing.T) {
	assert.Equal(t, "ID", InnerDetector.String())
	assert.Equal(t, "OD", OuterDetector.String())
	assert.Equal(t, "Unknown", Detector(5).String())
}
