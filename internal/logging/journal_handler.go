package logging

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// JournalHandler writes records to the systemd journal. Attributes become
// journal fields: "period_ms" is stored as PERIOD_MS and attributes inside
// group "api" as API_<KEY>.
type JournalHandler struct {
	level slog.Leveler
	// fields holds attributes added by WithAttrs, already rendered under
	// the groups open at the time.
	fields map[string]string
	groups []string
}

// NewJournalHandler returns a handler that drops records below level.
func NewJournalHandler(level slog.Leveler) *JournalHandler {
	return &JournalHandler{level: level}
}

func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	fields := journalFields(h.fields, h.groups, r)

	if err := journal.Send(r.Message, journalPriority(r.Level), fields); err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v\n", err)
		return err
	}
	return nil
}

func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := maps.Clone(h.fields)
	if fields == nil {
		fields = make(map[string]string, len(attrs))
	}
	for _, a := range attrs {
		putField(fields, h.groups, a)
	}
	return &JournalHandler{
		level:  h.level,
		fields: fields,
		groups: h.groups,
	}
}

func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &JournalHandler{
		level:  h.level,
		fields: h.fields,
		groups: append(slices.Clip(h.groups), name),
	}
}

// journalFields merges the handler's rendered fields with the record's
// attributes. MESSAGE and PRIORITY are added by journal.Send.
func journalFields(base map[string]string, groups []string, r slog.Record) map[string]string {
	fields := make(map[string]string, len(base)+r.NumAttrs()+1)
	maps.Copy(fields, base)
	fields["SYSLOG_IDENTIFIER"] = Identifier
	r.Attrs(func(a slog.Attr) bool {
		putField(fields, groups, a)
		return true
	})
	return fields
}

func putField(fields map[string]string, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := groups
		if a.Key != "" {
			inner = append(slices.Clip(groups), a.Key)
		}
		for _, ga := range a.Value.Group() {
			putField(fields, inner, ga)
		}
		return
	}

	name := fieldName(append(slices.Clip(groups), a.Key))
	if name == "" {
		return
	}
	fields[name] = fieldValue(a.Value)
}

// fieldName joins key parts with underscores and maps them onto the
// journal field alphabet [A-Z0-9_]. Leading underscores are reserved for
// trusted fields and are stripped.
func fieldName(parts []string) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte('_')
		}
		for _, c := range part {
			switch {
			case c >= 'a' && c <= 'z':
				b.WriteRune(c - 'a' + 'A')
			case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
				b.WriteRune(c)
			default:
				b.WriteByte('_')
			}
		}
	}
	name := strings.TrimLeft(b.String(), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "F" + name
	}
	return name
}

func fieldValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	default:
		return v.String()
	}
}

func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// IsJournalAvailable reports whether the journal socket is reachable.
func IsJournalAvailable() bool {
	return journal.Enabled()
}
