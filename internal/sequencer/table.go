package sequencer

import "github.com/smazurov/ledchaser/internal/led"

// Transition tables, position -> pattern. Bit order is LED1..LED4.
var tables = map[Mode][]led.Pattern{
	SweepRight:      {0b1000, 0b0100, 0b0010, 0b0001},
	SweepLeft:       {0b0001, 0b0010, 0b0100, 0b1000},
	AlternatingPair: {0b0001, 0b0010, 0b0100, 0b1000, 0b0100, 0b0010},
}

// Table returns a copy of the transition table for m, or nil for an unknown mode.
func Table(m Mode) []led.Pattern {
	t, ok := tables[m]
	if !ok {
		return nil
	}
	out := make([]led.Pattern, len(t))
	copy(out, t)
	return out
}

// Next returns the pattern to show at pos and the position that follows it.
// A position outside the table, which happens when the mode changes while
// the counter is past the new table's end, restarts the table at 0.
func Next(m Mode, pos uint) (led.Pattern, uint) {
	t, ok := tables[m]
	if !ok {
		t = tables[SweepRight]
	}
	if pos >= uint(len(t)) {
		pos = 0
	}
	return t[pos], (pos + 1) % uint(len(t))
}
