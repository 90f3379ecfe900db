package led

import (
	"sync"

	"github.com/smazurov/ledchaser/internal/logging"
)

// noop implements Bank for hosts without usable output lines.
type noop struct {
	logger logging.Logger
	mu     sync.Mutex
	last   Pattern
}

// newNoop creates a new no-op bank
func newNoop(logger logging.Logger) *noop {
	return &noop{
		logger: logger,
	}
}

// Set logs the request but performs no actual output
func (n *noop) Set(p Pattern) error {
	n.mu.Lock()
	n.last = p
	n.mu.Unlock()

	n.logger.Debug("LED output not available (no-op)", "pattern", p.String())
	return nil
}

// Close has nothing to release.
func (n *noop) Close() error {
	return nil
}

// Last returns the most recently set pattern.
func (n *noop) Last() Pattern {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
