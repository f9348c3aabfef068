package segmenter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebaseKeepsAbsoluteTimes(t *testing.T) {
	ev, digits := newEventWithDigits(100, []float64{5, -20, 0.001}, []int{1, 2, 3}, []float64{1, 1, 1})
	before := absoluteTimes(ev.SubEvent(0))

	cat := NewTriggerCatalog(window(90, 130, 110), window(200, 220, 210))
	rebaser := TimeRebaser{opts: Options{TriggerOffset: ns(950)}}
	shift, err := rebaser.Rebase(ev, cat, 7)
	require.NoError(t, err)

	assert.Equal(t, ns(10), shift)
	assert.Equal(t, before, absoluteTimes(ev.SubEvent(0)))
	assert.Equal(t, ns(-5), digits[0].Time)
	assert.Equal(t, ns(-30), digits[1].Time)
	assert.Equal(t, ns(-9.999), digits[2].Time)
}

func TestRebaseCreatesSubEvents(t *testing.T) {
	ev := NewEvent(0)
	w1 := window(200, 220, 210)
	w1.Type = TriggerSuperNova
	w1.Info = []float64{12}
	cat := NewTriggerCatalog(window(90, 130, 110), w1, window(300, 320, 310))

	rebaser := TimeRebaser{opts: Options{TriggerOffset: ns(950)}}
	_, err := rebaser.Rebase(ev, cat, 7)
	require.NoError(t, err)

	require.Equal(t, 3, ev.NumSubEvents())
	for i := 0; i < 3; i++ {
		h := ev.SubEvent(i).Header
		assert.Equal(t, 7, h.EventNumber)
		assert.Equal(t, i, h.Window)
		assert.Equal(t, cat.Window(i).TriggerTime, h.Date)
		assert.Equal(t, ns(950), h.TriggerOffset)
		assert.Equal(t, 0, h.Mode)
	}
	assert.Equal(t, TriggerSuperNova, ev.SubEvent(1).Header.TriggerType)
	assert.Equal(t, []float64{12}, ev.SubEvent(1).Header.TriggerInfo)
	assert.Equal(t, 0, ev.SubEvent(1).NumDigits())
}

func TestRebaseNoWindows(t *testing.T) {
	ev, digits := newEventWithDigits(100, []float64{5}, []int{1}, []float64{1})
	shift, err := TimeRebaser{}.Rebase(ev, NewTriggerCatalog(), 0)
	require.NoError(t, err)
	assert.Equal(t, TimeDelta(0), shift)
	assert.Equal(t, 1, ev.NumSubEvents())
	assert.Equal(t, ns(100), ev.SubEvent(0).Header.Date)
	assert.Equal(t, ns(5), digits[0].Time)
}

func TestRebaseTwiceFails(t *testing.T) {
	ev := NewEvent(0)
	cat := NewTriggerCatalog(window(0, 10, 5), window(20, 30, 25))
	_, err := TimeRebaser{}.Rebase(ev, cat, 0)
	require.NoError(t, err)

	_, err = TimeRebaser{}.Rebase(ev, cat, 0)
	assert.True(t, errors.Is(err, ErrPhaseOrder))
	assert.Equal(t, 2, ev.NumSubEvents())
}

func TestRebaseLogsShift(t *testing.T) {
	l := useRecordingLogger(t)
	ev := NewEvent(0)
	cat := NewTriggerCatalog(window(0, 10, 5))
	_, err := TimeRebaser{opts: Options{Verbosity: 2}}.Rebase(ev, cat, 0)
	require.NoError(t, err)
	assert.True(t, l.contains(l.infos, "Trigger date shift"))
}
