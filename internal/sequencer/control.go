package sequencer

import (
	"sync/atomic"
)

// Mode selects the lighting sequence.
type Mode int32

// Sequencer modes.
const (
	SweepRight Mode = iota
	SweepLeft
	AlternatingPair
)

// Period limits in milliseconds. A period must satisfy MinPeriod < p <= MaxPeriod.
const (
	MinPeriod     = 1
	MaxPeriod     = 10000
	DefaultPeriod = 1000
)

// DefaultMode is the mode a freshly started chaser runs in.
const DefaultMode = AlternatingPair

// External names of each mode, as shown on the control surface.
var modeNames = map[Mode]string{
	SweepRight:      "corre",
	SweepLeft:       "izq",
	AlternatingPair: "der",
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{SweepRight, SweepLeft, AlternatingPair}
}

// String returns the control-surface name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode maps a control-surface name to a mode.
func ParseMode(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// ValidPeriod reports whether p is an acceptable period in milliseconds.
func ValidPeriod(p int) bool {
	return p > MinPeriod && p <= MaxPeriod
}

// Control holds the live-adjustable knobs shared between the control
// surface and the sequencer loop. Each knob is an independent atomic, so
// readers never see a torn value and writers never contend on one lock.
type Control struct {
	mode   atomic.Int32
	period atomic.Int32
}

// NewControl returns a Control with the given starting values. Invalid
// values fall back to DefaultMode and DefaultPeriod.
func NewControl(mode Mode, periodMs int) *Control {
	c := &Control{}
	c.mode.Store(int32(DefaultMode))
	c.period.Store(DefaultPeriod)
	c.SetMode(mode)
	c.SetPeriod(periodMs)
	return c
}

// Mode returns the current mode.
func (c *Control) Mode() Mode {
	return Mode(c.mode.Load())
}

// SetMode replaces the mode. Unknown modes are ignored and report false.
func (c *Control) SetMode(m Mode) bool {
	_, ok := c.SwapMode(m)
	return ok
}

// SwapMode replaces the mode and returns the one it replaced.
// Unknown modes leave the mode unchanged and report false.
func (c *Control) SwapMode(m Mode) (Mode, bool) {
	if !m.Valid() {
		return c.Mode(), false
	}
	return Mode(c.mode.Swap(int32(m))), true
}

// Period returns the current period in milliseconds.
func (c *Control) Period() int {
	return int(c.period.Load())
}

// SetPeriod replaces the period if it is within range and reports whether
// it was applied.
func (c *Control) SetPeriod(p int) bool {
	_, ok := c.SwapPeriod(p)
	return ok
}

// SwapPeriod replaces the period and returns the one it replaced.
// Out-of-range periods leave the period unchanged and report false.
func (c *Control) SwapPeriod(p int) (int, bool) {
	if !ValidPeriod(p) {
		return c.Period(), false
	}
	return int(c.period.Swap(int32(p))), true
}
