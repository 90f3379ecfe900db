package led

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smazurov/ledchaser/internal/logging"
)

// Backend names accepted by New.
const (
	BackendGPIOCDev = "gpiocdev"
	BackendSysfs    = "sysfs"
	BackendNone     = "none"
)

// DefaultOffsets are the BCM GPIO lines of LED1..LED4 on the Raspberry Pi header.
var DefaultOffsets = []int{5, 6, 13, 19}

// Config selects and configures the bank backend.
type Config struct {
	Backend    string   // gpiocdev, sysfs or none
	Chip       string   // gpiocdev chip, e.g. "gpiochip0"
	Offsets    []int    // gpiocdev line offsets, LED1 first
	SysfsRoot  string   // defaults to /sys/class/leds
	SysfsNames []string // sysfs LED names, LED1 first
}

// ChipInfo describes a GPIO chip and its lines.
type ChipInfo struct {
	Name  string     `json:"name"`
	Label string     `json:"label"`
	Lines []LineInfo `json:"lines"`
}

// LineInfo describes a single GPIO line.
type LineInfo struct {
	Offset   int    `json:"offset"`
	Name     string `json:"name"`
	Consumer string `json:"consumer,omitempty"`
	Used     bool   `json:"used"`
}

// New acquires the lines described by cfg and returns the bank.
// Any acquisition failure is returned; nothing stays claimed on error.
func New(cfg Config, logger logging.Logger) (Bank, error) {
	switch cfg.Backend {
	case BackendGPIOCDev, "":
		chip := cfg.Chip
		if chip == "" {
			chip = "gpiochip0"
		}
		offsets := cfg.Offsets
		if len(offsets) == 0 {
			offsets = DefaultOffsets
		}
		logger.Info("Requesting GPIO lines", "chip", chip, "offsets", offsets)
		bank, err := newChardev(chip, offsets)
		if err != nil {
			return nil, err
		}
		return bank, nil

	case BackendSysfs:
		logger.Info("Claiming sysfs LEDs", "root", cfg.SysfsRoot, "names", cfg.SysfsNames)
		bank, err := newSysfs(cfg.SysfsRoot, cfg.SysfsNames)
		if err != nil {
			return nil, err
		}
		return bank, nil

	case BackendNone:
		logger.Info("No LED backend configured, using no-op bank")
		return newNoop(logger), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// ParseOffsets parses a comma-separated list of line offsets such as "5,6,13,19".
func ParseOffsets(s string) ([]int, error) {
	fields := SplitList(s)
	if len(fields) != LineCount {
		return nil, fmt.Errorf("%w: got %d offsets in %q", ErrLineCount, len(fields), s)
	}

	offsets := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid line offset %q", f)
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
