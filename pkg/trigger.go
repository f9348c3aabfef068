package segmenter

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

type TriggerType int32

const (
	TriggerUndefined TriggerType = iota - 1
	TriggerNDigits
	TriggerNDigitsTest
	TriggerSuperNova
	TriggerLocalNHits
	TriggerTestVertex
	TriggerNoTrig
	TriggerFailure
)

var triggerTypeStrings = []string{
	"NDigits",
	"NDigits_TEST",
	"SuperNova",
	"LocalNHits",
	"TestVertexTrigger",
	"NoTrig",
	"Failure",
}

func (t TriggerType) String() string {
	if t < TriggerNDigits || t > TriggerFailure {
		return "Undefined"
	}
	return triggerTypeStrings[t]
}

func (t TriggerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the trigger name or its numeric code.
func (t *TriggerType) UnmarshalJSON(data []byte) error {
	var code int32
	if err := json.Unmarshal(data, &code); err == nil {
		*t = TriggerType(code)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.EqualFold(s, "Undefined") {
		*t = TriggerUndefined
		return nil
	}
	for i, v := range triggerTypeStrings {
		if strings.EqualFold(v, s) {
			*t = TriggerType(i)
			return nil
		}
	}
	return fmt.Errorf("invalid TriggerType: %s", s)
}

// TriggerWindow is one readout decision. [ReadoutStart, ReadoutEnd] is the
// readout window and TriggerTime is the time origin of the sub-event built
// from it.
type TriggerWindow struct {
	ReadoutStart TimeDelta
	ReadoutEnd   TimeDelta
	TriggerTime  TimeDelta
	Type         TriggerType
	Info         []float64
}

func (w TriggerWindow) Contains(t TimeDelta) bool {
	return t >= w.ReadoutStart && t <= w.ReadoutEnd
}

func (w TriggerWindow) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%v, %v] %v with type %v extra info", w.ReadoutStart, w.ReadoutEnd, w.TriggerTime, w.Type)
	for _, v := range w.Info {
		fmt.Fprintf(&sb, " %g", v)
	}
	return sb.String()
}

// WindowMatch is the result of a window search: either a window index or no
// window at all.
type WindowMatch struct {
	index int
	found bool
}

var NoWindow = WindowMatch{}

func Window(index int) WindowMatch {
	return WindowMatch{index: index, found: true}
}

func (m WindowMatch) Index() (int, bool) {
	return m.index, m.found
}

func (m WindowMatch) String() string {
	if !m.found {
		return "none"
	}
	return fmt.Sprintf("%d", m.index)
}

// TriggerCatalog holds the trigger windows of one raw event in discovery
// order. Windows may overlap and need not be sorted in time.
type TriggerCatalog struct {
	windows []TriggerWindow
}

func NewTriggerCatalog(windows ...TriggerWindow) *TriggerCatalog {
	c := &TriggerCatalog{}
	for _, w := range windows {
		c.Add(w)
	}
	return c
}

func (c *TriggerCatalog) Add(w TriggerWindow) {
	info := make([]float64, len(w.Info))
	copy(info, w.Info)
	w.Info = info
	c.windows = append(c.windows, w)
}

// AddTriggers appends every window of other, keeping its order.
func (c *TriggerCatalog) AddTriggers(other *TriggerCatalog) {
	if other == nil {
		return
	}
	for _, w := range other.windows {
		c.Add(w)
	}
}

func (c *TriggerCatalog) Clear() {
	c.windows = c.windows[:0]
}

func (c *TriggerCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.windows)
}

// Window returns the i-th window. The Info slice is shared with the catalog
// and must not be modified.
func (c *TriggerCatalog) Window(i int) TriggerWindow {
	return c.windows[i]
}

// Find returns the earliest-indexed window whose readout interval contains t.
func (c *TriggerCatalog) Find(t TimeDelta) WindowMatch {
	for i, w := range c.windows {
		if w.Contains(t) {
			return Window(i)
		}
	}
	return NoWindow
}

// FindNoDelete returns the earliest-indexed window ending at or after t.
// Anything before the end of window 0 belongs to window 0, anything between
// the end of window 0 and the end of window 1 to window 1, and so on. When t
// is later than every window the last window is returned with fallback set.
func (c *TriggerCatalog) FindNoDelete(t TimeDelta) (index int, fallback bool) {
	for i, w := range c.windows {
		if t <= w.ReadoutEnd {
			return i, false
		}
	}
	return len(c.windows) - 1, true
}
