package sequencer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smazurov/ledchaser/internal/led"
)

var (
	// ErrAlreadyRunning is returned by Start on a running sequencer.
	ErrAlreadyRunning = errors.New("sequencer already running")
	// ErrBankReleased is returned by Start once the bank has been released,
	// either by Stop or by a failed Start.
	ErrBankReleased = errors.New("LED bank already released")
)

// Observer receives per-tick notifications from the loop.
type Observer interface {
	ObserveTick(mode Mode, p led.Pattern)
	ObserveWriteError(err error)
}

// Options configures a Sequencer.
type Options struct {
	Bank     led.Bank
	Control  *Control
	Logger   *slog.Logger
	Observer Observer // optional
}

// Sequencer drives an LED bank through the transition table of the
// current mode, one pattern every half period.
type Sequencer struct {
	bank     led.Bank
	control  *Control
	logger   *slog.Logger
	observer Observer

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	ticks atomic.Uint64
}

// New creates a sequencer. The sequencer owns opts.Bank from here on and
// releases it in Stop.
func New(opts Options) *Sequencer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Sequencer{
		bank:     opts.Bank,
		control:  opts.Control,
		logger:   logger,
		observer: opts.Observer,
	}
}

// Start energizes every line and spawns the loop.
// If the bank rejects the initial write it is released and the error returned.
func (s *Sequencer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if s.bank == nil {
		return ErrBankReleased
	}

	if err := s.bank.Set(led.AllOn); err != nil {
		s.release()
		return fmt.Errorf("failed to energize LED bank: %w", err)
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running = true

	go s.run(s.stop, s.done)
	return nil
}

// Stop signals the loop, waits for it to exit, turns every line off and
// releases the bank. A pattern write in progress is never interrupted.
// Calling Stop on a stopped sequencer does nothing. The bank cannot be
// reacquired, so a stopped sequencer cannot be started again.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stop)
	<-s.done
	s.running = false

	if err := s.bank.Set(led.AllOff); err != nil {
		s.logger.Warn("Failed to turn LED bank off", "error", err)
	}
	s.release()
}

// release closes the bank and forgets it. Callers hold s.mu.
func (s *Sequencer) release() {
	if err := s.bank.Close(); err != nil {
		s.logger.Warn("Failed to release LED bank", "error", err)
	}
	s.bank = nil
}

// Running reports whether the loop is active.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Ticks returns how many ticks the loop has executed since construction.
func (s *Sequencer) Ticks() uint64 {
	return s.ticks.Load()
}

// run is the tick loop. Mode and period are read fresh at the top of every
// tick, so reconfiguration takes effect at the next tick boundary.
func (s *Sequencer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.logger.Info("Sequencer loop started")
	defer func() {
		s.logger.Info("Sequencer loop ran to completion", "ticks", s.ticks.Load())
	}()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	var pos uint
	for {
		select {
		case <-stop:
			return
		default:
		}

		mode := s.control.Mode()
		period := s.control.Period()

		var p led.Pattern
		p, pos = Next(mode, pos)
		s.apply(mode, p)

		timer.Reset(halfPeriod(period))
		select {
		case <-stop:
			return
		case <-timer.C:
		}
	}
}

// apply writes one pattern. Write failures are logged and the loop goes on.
func (s *Sequencer) apply(mode Mode, p led.Pattern) {
	s.ticks.Add(1)

	if err := s.bank.Set(p); err != nil {
		s.logger.Warn("Failed to write LED pattern", "mode", mode.String(), "pattern", p.String(), "error", err)
		if s.observer != nil {
			s.observer.ObserveWriteError(err)
		}
		return
	}

	if s.observer != nil {
		s.observer.ObserveTick(mode, p)
	}
}

func halfPeriod(periodMs int) time.Duration {
	return time.Duration(periodMs/2) * time.Millisecond
}
