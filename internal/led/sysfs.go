package led

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSysfsRoot is where the kernel LED class exposes LEDs.
const DefaultSysfsRoot = "/sys/class/leds"

// sysfs implements Bank using the Linux sysfs LED class interface.
// Each line is an LED directory with "trigger" and "brightness" files.
type sysfs struct {
	paths []string // LED1..LED4 directories
}

// newSysfs claims the named LEDs under root by switching their trigger to
// "none" so nothing else drives them.
func newSysfs(root string, names []string) (*sysfs, error) {
	if len(names) != LineCount {
		return nil, fmt.Errorf("%w: got %d sysfs names", ErrLineCount, len(names))
	}
	if root == "" {
		root = DefaultSysfsRoot
	}

	s := &sysfs{paths: make([]string, 0, LineCount)}
	for _, name := range names {
		ledPath := filepath.Join(root, name)

		if _, err := os.Stat(ledPath); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("LED %q not found at %s: %w", name, ledPath, err)
		}

		if err := os.WriteFile(filepath.Join(ledPath, "trigger"), []byte("none"), 0o644); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to claim LED %q: %w", name, err)
		}
		s.paths = append(s.paths, ledPath)
	}
	return s, nil
}

// Set writes brightness 1/0 to each LED.
func (s *sysfs) Set(p Pattern) error {
	if s.paths == nil {
		return ErrClosed
	}
	var errs []error
	for i, ledPath := range s.paths {
		if err := writeBrightness(ledPath, p.Line(i)); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

// Close turns every claimed LED off.
func (s *sysfs) Close() error {
	var errs []error
	for i, ledPath := range s.paths {
		if err := writeBrightness(ledPath, false); err != nil {
			errs = append(errs, fmt.Errorf("release line %d: %w", i+1, err))
		}
	}
	s.paths = nil
	return errors.Join(errs...)
}

func writeBrightness(ledPath string, on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	if err := os.WriteFile(filepath.Join(ledPath, "brightness"), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}
	return nil
}
