package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalizeSkipsEmptySlots(t *testing.T) {
	ev, digits := newEventWithDigits(0, []float64{1, 2, 3}, []int{4, 4, 5}, []float64{1.5, 2.5, 4})
	ev.SubEvent(0).RemoveDigit(digits[1])
	ev.AddSubEvent()

	SubEventFinalizer{}.Finalize(ev, 2)
	assert.Equal(t, 5.5, ev.SubEvent(0).SumQ)
	// counts digits, a tube giving two digits counts twice
	assert.Equal(t, 2, ev.SubEvent(0).NumDigitizedTubes)
	assert.Equal(t, 0.0, ev.SubEvent(1).SumQ)
	assert.Equal(t, 0, ev.SubEvent(1).NumDigitizedTubes)
}

func TestFinalizeCountsRepeatedTubes(t *testing.T) {
	ev, _ := newEventWithDigits(0, []float64{1, 2}, []int{4, 4}, []float64{1, 1})
	SubEventFinalizer{}.Finalize(ev, 1)
	assert.Equal(t, 2, ev.SubEvent(0).NumDigitizedTubes)
}

func TestFinalizeIgnoresMissingSubEvents(t *testing.T) {
	ev, _ := newEventWithDigits(0, []float64{1}, []int{4}, []float64{3})
	assert.NotPanics(t, func() { SubEventFinalizer{}.Finalize(ev, 3) })
	assert.Equal(t, 3.0, ev.SubEvent(0).SumQ)
}
