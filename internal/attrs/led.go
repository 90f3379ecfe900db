package attrs

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/smazurov/ledchaser/internal/events"
	"github.com/smazurov/ledchaser/internal/sequencer"
)

// Attribute names of the LED group.
const (
	AttrMode   = "mode"
	AttrPeriod = "period"
	// AttrBlinkPeriod is the historical name of the period attribute.
	AttrBlinkPeriod = "blinkPeriod"
)

// GroupName returns the group name for a pin label, e.g. "led17".
func GroupName(pin int) string {
	return fmt.Sprintf("led%d", pin)
}

// NewLEDGroup exposes ctrl's mode and period as the group "led<pin>".
// Accepted changes publish ModeChangedEvent/PeriodChangedEvent on bus and
// rejected writes publish StoreRejectedEvent. bus may be nil.
func NewLEDGroup(pin int, ctrl *sequencer.Control, bus *events.Bus, logger *slog.Logger) *Group {
	name := GroupName(pin)
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("group", name)

	publish := func(ev events.Event) {
		if bus != nil {
			bus.Publish(ev)
		}
	}
	rejected := func(attr, value string) bool {
		logger.Debug("Ignoring attribute write", "attribute", attr, "value", value)
		publish(events.StoreRejectedEvent{
			Group:     name,
			Attribute: attr,
			Value:     value,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return false
	}

	mode := Attribute{
		Name: AttrMode,
		Show: func() string { return ctrl.Mode().String() },
		Store: func(value string) bool {
			m, ok := sequencer.ParseMode(strings.TrimRight(value, "\r\n"))
			if !ok {
				return rejected(AttrMode, value)
			}
			prev, _ := ctrl.SwapMode(m)
			if prev != m {
				logger.Info("Mode changed", "mode", m.String(), "previous", prev.String())
				publish(events.ModeChangedEvent{
					Group:     name,
					Mode:      m.String(),
					Previous:  prev.String(),
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
			return true
		},
	}

	period := Attribute{
		Name: AttrPeriod,
		Show: func() string { return strconv.Itoa(ctrl.Period()) },
		Store: func(value string) bool {
			p, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return rejected(AttrPeriod, value)
			}
			prev, ok := ctrl.SwapPeriod(p)
			if !ok {
				return rejected(AttrPeriod, value)
			}
			if prev != p {
				logger.Info("Period changed", "period_ms", p, "previous_ms", prev)
				publish(events.PeriodChangedEvent{
					Group:     name,
					PeriodMs:  p,
					Previous:  prev,
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
			return true
		},
	}

	g := NewGroup(name, mode, period)
	g.Alias(AttrBlinkPeriod, AttrPeriod)
	return g
}
