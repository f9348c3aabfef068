package segmenter

type SubEventFinalizer struct{}

// Finalize computes the header quantities that need every digit in place.
// NumDigitizedTubes counts digits, not distinct tubes.
func (SubEventFinalizer) Finalize(ev *Event, nWindows int) {
	for i := 0; i < nWindows && i < ev.NumSubEvents(); i++ {
		trig := ev.SubEvent(i)
		sumQ := 0.0
		nTubesHit := 0
		for j := 0; j < trig.NumDigitSlots(); j++ {
			d := trig.DigitAt(j)
			if d == nil {
				continue
			}
			sumQ += d.Charge
			nTubesHit++
		}
		trig.SumQ = sumQ
		trig.NumDigitizedTubes = nTubesHit
	}
}
