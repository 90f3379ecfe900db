package led

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPattern_Lines(t *testing.T) {
	tests := []struct {
		pattern Pattern
		want    string
		values  []int
		on      int
	}{
		{AllOff, "0000", []int{0, 0, 0, 0}, 0},
		{AllOn, "1111", []int{1, 1, 1, 1}, 4},
		{0b1000, "1000", []int{1, 0, 0, 0}, 1},
		{0b0001, "0001", []int{0, 0, 0, 1}, 1},
		{0b0110, "0110", []int{0, 1, 1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.pattern.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.pattern.Values(); !reflect.DeepEqual(got, tt.values) {
				t.Errorf("Values() = %v, want %v", got, tt.values)
			}
			if got := tt.pattern.OnCount(); got != tt.on {
				t.Errorf("OnCount() = %d, want %d", got, tt.on)
			}
		})
	}
}

func TestPattern_LineOutOfRange(t *testing.T) {
	if AllOn.Line(-1) || AllOn.Line(LineCount) {
		t.Error("Line() outside the bank should be false")
	}
}

func TestNoopBank(t *testing.T) {
	bank := newNoop(newTestLogger())

	if err := bank.Set(0b0100); err != nil {
		t.Errorf("Set() returned error: %v", err)
	}
	if got := bank.Last(); got != 0b0100 {
		t.Errorf("Last() = %s, want 0100", got)
	}
	if err := bank.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}

// makeSysfsLEDs creates fake LED class directories under a temp root.
func makeSysfsLEDs(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "trigger"), []byte("[heartbeat] none"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte("1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(data))
}

func TestSysfsBank_SetAndClose(t *testing.T) {
	names := []string{"led1", "led2", "led3", "led4"}
	root := makeSysfsLEDs(t, names...)

	bank, err := newSysfs(root, names)
	if err != nil {
		t.Fatalf("newSysfs() error: %v", err)
	}

	for _, name := range names {
		if got := readFile(t, filepath.Join(root, name, "trigger")); got != "none" {
			t.Errorf("%s trigger = %q, want none", name, got)
		}
	}

	if err := bank.Set(0b0010); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	want := []string{"0", "0", "1", "0"}
	for i, name := range names {
		if got := readFile(t, filepath.Join(root, name, "brightness")); got != want[i] {
			t.Errorf("%s brightness = %q, want %q", name, got, want[i])
		}
	}

	if err := bank.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	for _, name := range names {
		if got := readFile(t, filepath.Join(root, name, "brightness")); got != "0" {
			t.Errorf("%s brightness after Close = %q, want 0", name, got)
		}
	}
}

func TestSysfsBank_SetAfterClose(t *testing.T) {
	names := []string{"led1", "led2", "led3", "led4"}
	root := makeSysfsLEDs(t, names...)

	bank, err := newSysfs(root, names)
	if err != nil {
		t.Fatal(err)
	}
	if err := bank.Close(); err != nil {
		t.Fatal(err)
	}
	if err := bank.Set(AllOn); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
	if got := readFile(t, filepath.Join(root, "led1", "brightness")); got != "0" {
		t.Errorf("led1 brightness = %q, want 0", got)
	}
}

func TestSysfsBank_MissingLED(t *testing.T) {
	root := makeSysfsLEDs(t, "led1", "led2", "led3")

	_, err := newSysfs(root, []string{"led1", "led2", "led3", "missing"})
	if err == nil {
		t.Fatal("newSysfs() with a missing LED should fail")
	}
}

func TestSysfsBank_WrongLineCount(t *testing.T) {
	_, err := newSysfs(t.TempDir(), []string{"led1"})
	if !errors.Is(err, ErrLineCount) {
		t.Errorf("newSysfs() error = %v, want ErrLineCount", err)
	}
}

func TestNew_Backends(t *testing.T) {
	logger := newTestLogger()

	bank, err := New(Config{Backend: BackendNone}, logger)
	if err != nil {
		t.Fatalf("New(none) error: %v", err)
	}
	if bank == nil {
		t.Fatal("New(none) returned nil bank")
	}

	names := []string{"a", "b", "c", "d"}
	root := makeSysfsLEDs(t, names...)
	bank, err = New(Config{Backend: BackendSysfs, SysfsRoot: root, SysfsNames: names}, logger)
	if err != nil {
		t.Fatalf("New(sysfs) error: %v", err)
	}
	_ = bank.Close()

	_, err = New(Config{Backend: "pwm"}, logger)
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("New(pwm) error = %v, want ErrUnknownBackend", err)
	}
}

func TestParseOffsets(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"5,6,13,19", []int{5, 6, 13, 19}, false},
		{" 1, 2 ,3,4 ", []int{1, 2, 3, 4}, false},
		{"1,2,3", nil, true},
		{"1,2,3,x", nil, true},
		{"1,2,3,-4", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOffsets(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOffsets(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOffsets(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
