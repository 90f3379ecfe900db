package sequencer

import (
	"sync"
	"testing"
)

func TestControl_SetPeriod(t *testing.T) {
	tests := []struct {
		input   int
		applied bool
		want    int
	}{
		{0, false, DefaultPeriod},
		{1, false, DefaultPeriod},
		{10001, false, DefaultPeriod},
		{-5, false, DefaultPeriod},
		{2, true, 2},
		{10000, true, 10000},
		{500, true, 500},
	}

	for _, tt := range tests {
		c := NewControl(SweepRight, DefaultPeriod)
		if got := c.SetPeriod(tt.input); got != tt.applied {
			t.Errorf("SetPeriod(%d) = %v, want %v", tt.input, got, tt.applied)
		}
		if got := c.Period(); got != tt.want {
			t.Errorf("after SetPeriod(%d): Period() = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestControl_SetMode(t *testing.T) {
	c := NewControl(SweepRight, DefaultPeriod)

	if c.SetMode(Mode(7)) {
		t.Error("SetMode(7) should be rejected")
	}
	if c.Mode() != AlternatingPair {
		t.Errorf("Mode() = %v, want AlternatingPair", c.Mode())
	}
	if c.Mode().String() != "der" {
		t.Errorf("Mode().String() = %q, want der", c.Mode().String())
	}

	for _, m := range Modes() {
		if !c.SetMode(m) {
			t.Errorf("SetMode(%v) rejected", m)
		}
		if c.Mode() != m {
			t.Errorf("Mode() = %v, want %v", c.Mode(), m)
		}
	}
}

func TestNewControl_InvalidDefaults(t *testing.T) {
	c := NewControl(Mode(-1), 0)
	if c.Mode() != SweepRight {
		t.Errorf("Mode() = %v, want SweepRight", c.Mode())
	}
	if c.Period() != DefaultPeriod {
		t.Errorf("Period() = %d, want %d", c.Period(), DefaultPeriod)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		want Mode
		ok   bool
	}{
		{"corre", SweepRight, true},
		{"izq", SweepLeft, true},
		{"der", AlternatingPair, true},
		{"arriba", 0, false},
		{"", 0, false},
		{"IZQ", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseMode(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}

	for _, m := range Modes() {
		if back, ok := ParseMode(m.String()); !ok || back != m {
			t.Errorf("ParseMode(%q) does not round-trip", m.String())
		}
	}
}

func TestControl_ConcurrentAccess(t *testing.T) {
	c := NewControl(SweepRight, DefaultPeriod)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 1000 {
				c.SetMode(Modes()[(i+j)%3])
				c.SetPeriod(2 + j)
			}
		}()
		go func() {
			defer wg.Done()
			for range 1000 {
				if !c.Mode().Valid() {
					t.Error("observed invalid mode")
					return
				}
				if !ValidPeriod(c.Period()) {
					t.Error("observed invalid period")
					return
				}
			}
		}()
	}
	wg.Wait()
}
