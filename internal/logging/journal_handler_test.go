package logging

import (
	"context"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"period_ms"}, "PERIOD_MS"},
		{[]string{"api", "status"}, "API_STATUS"},
		{[]string{"http.method"}, "HTTP_METHOD"},
		{[]string{"led-backend"}, "LED_BACKEND"},
		{[]string{"_internal"}, "INTERNAL"},
		{[]string{"4lines"}, "F4LINES"},
		{[]string{"ñ"}, ""},
	}

	for _, tt := range tests {
		if got := fieldName(tt.parts); got != tt.want {
			t.Errorf("fieldName(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestJournalFields(t *testing.T) {
	h := NewJournalHandler(slog.LevelDebug).
		WithAttrs([]slog.Attr{slog.String("module", "sequencer")}).
		WithGroup("tick").(*JournalHandler)

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "Mode changed", 0)
	r.AddAttrs(
		slog.String("mode", "der"),
		slog.Int("period_ms", 500),
		slog.Bool("applied", true),
		slog.Duration("sleep", 250*time.Millisecond),
		slog.Group("bank", slog.Uint64("pattern", 9)),
	)

	want := map[string]string{
		"SYSLOG_IDENTIFIER": Identifier,
		"MODULE":            "sequencer",
		"TICK_MODE":         "der",
		"TICK_PERIOD_MS":    "500",
		"TICK_APPLIED":      "true",
		"TICK_SLEEP":        "250ms",
		"TICK_BANK_PATTERN": "9",
	}
	if got := journalFields(h.fields, h.groups, r); !reflect.DeepEqual(got, want) {
		t.Errorf("journalFields() = %v, want %v", got, want)
	}
}

func TestJournalHandler_WithAttrsDoesNotAlias(t *testing.T) {
	base := NewJournalHandler(slog.LevelInfo).WithAttrs([]slog.Attr{slog.String("a", "1")}).(*JournalHandler)
	left := base.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*JournalHandler)
	right := base.WithAttrs([]slog.Attr{slog.String("c", "3")}).(*JournalHandler)

	if _, ok := left.fields["C"]; ok {
		t.Errorf("left handler sees sibling field: %v", left.fields)
	}
	if _, ok := right.fields["B"]; ok {
		t.Errorf("right handler sees sibling field: %v", right.fields)
	}
	if want := map[string]string{"A": "1"}; !reflect.DeepEqual(base.fields, want) {
		t.Errorf("base handler fields = %v, want %v", base.fields, want)
	}
}

func TestJournalHandler_Enabled(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	h := NewJournalHandler(&level)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
	level.Set(slog.LevelDebug)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info disabled after lowering level")
	}
}

func TestJournalPriority(t *testing.T) {
	tests := map[slog.Level]journal.Priority{
		slog.LevelDebug: journal.PriDebug,
		slog.LevelInfo:  journal.PriInfo,
		slog.LevelWarn:  journal.PriWarning,
		slog.LevelError: journal.PriErr,
	}
	for level, want := range tests {
		if got := journalPriority(level); got != want {
			t.Errorf("journalPriority(%v) = %v, want %v", level, got, want)
		}
	}
}
