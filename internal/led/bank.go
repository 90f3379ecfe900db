package led

import (
	"errors"
	"strings"
)

// LineCount is the number of output lines in a bank.
const LineCount = 4

var (
	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown LED backend")
	// ErrLineCount is returned when a bank is configured with the wrong number of lines.
	ErrLineCount = errors.New("LED bank needs exactly 4 lines")
	// ErrClosed is returned by Set on a released bank.
	ErrClosed = errors.New("LED bank closed")
)

// Pattern is a 4-bit output vector. Bit 3 drives LED1 and bit 0 drives LED4,
// so the literal 0b1000 means "LED1 on, the rest off".
type Pattern uint8

// Well-known patterns.
const (
	AllOff Pattern = 0b0000
	AllOn  Pattern = 0b1111
)

// Line reports whether line i (0 = LED1) is energized in the pattern.
func (p Pattern) Line(i int) bool {
	if i < 0 || i >= LineCount {
		return false
	}
	return p&(1<<(LineCount-1-i)) != 0
}

// Values returns the pattern as one 0/1 value per line, LED1 first.
func (p Pattern) Values() []int {
	values := make([]int, LineCount)
	for i := range values {
		if p.Line(i) {
			values[i] = 1
		}
	}
	return values
}

// OnCount returns how many lines are energized.
func (p Pattern) OnCount() int {
	n := 0
	for i := 0; i < LineCount; i++ {
		if p.Line(i) {
			n++
		}
	}
	return n
}

// String renders the pattern as "1000", LED1 first.
func (p Pattern) String() string {
	var sb strings.Builder
	for i := 0; i < LineCount; i++ {
		if p.Line(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Bank is an ordered set of four binary output lines.
// All lines are acquired exclusively when the bank is created and
// held until Close.
type Bank interface {
	// Set drives every line to the matching bit of p.
	// All lines are attempted even if one fails; errors are joined.
	Set(p Pattern) error

	// Close releases all lines. Errors are joined; every line is released.
	Close() error
}
