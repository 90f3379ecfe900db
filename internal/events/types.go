package events

// Event type constants for kelindar/event.
const (
	TypeModeChanged uint32 = iota + 1
	TypePeriodChanged
	TypeStoreRejected
	TypeSequencerState
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ModeChangedEvent is published when the sequencer mode is replaced through the control surface.
type ModeChangedEvent struct {
	Group     string `json:"group" example:"led17" doc:"Attribute group"`
	Mode      string `json:"mode" example:"izq" doc:"New mode"`
	Previous  string `json:"previous" example:"corre" doc:"Mode before the change"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ModeChangedEvent.
func (e ModeChangedEvent) Type() uint32 { return TypeModeChanged }

// PeriodChangedEvent is published when the blink period is replaced.
type PeriodChangedEvent struct {
	Group     string `json:"group" example:"led17" doc:"Attribute group"`
	PeriodMs  int    `json:"period_ms" example:"500" doc:"New period in milliseconds"`
	Previous  int    `json:"previous_ms" example:"1000" doc:"Period before the change"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for PeriodChangedEvent.
func (e PeriodChangedEvent) Type() uint32 { return TypePeriodChanged }

// StoreRejectedEvent is published when a control-surface write is ignored.
type StoreRejectedEvent struct {
	Group     string `json:"group" example:"led17" doc:"Attribute group"`
	Attribute string `json:"attribute" example:"period" doc:"Attribute name"`
	Value     string `json:"value" example:"10001" doc:"Rejected value"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for StoreRejectedEvent.
func (e StoreRejectedEvent) Type() uint32 { return TypeStoreRejected }

// SequencerStateEvent is published when the sequencer loop starts or stops.
type SequencerStateEvent struct {
	Running   bool   `json:"running" example:"true" doc:"Whether the loop is running"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for SequencerStateEvent.
func (e SequencerStateEvent) Type() uint32 { return TypeSequencerState }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"sequencer" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
