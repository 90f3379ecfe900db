// Package systemd integrates with the service manager: readiness and
// status notification for the running daemon, and unit control over D-Bus
// for the command line.
package systemd

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/smazurov/ledchaser/internal/events"
)

// Notifier reports daemon state over NOTIFY_SOCKET. All methods are no-ops
// when the process was not started by systemd.
type Notifier struct {
	logger *slog.Logger

	mu     sync.Mutex
	mode   string
	period int
	unsubs []func()

	// lifecycle guards the keep-alive goroutine.
	lifecycle sync.Mutex
	stopped   bool
	stop      chan struct{}
	done      chan struct{}
}

// NewNotifier creates a notifier seeded with the current mode and period.
func NewNotifier(logger *slog.Logger, mode string, periodMs int) *Notifier {
	return &Notifier{logger: logger, mode: mode, period: periodMs}
}

// Ready sends READY=1 with the current status and starts the watchdog
// keep-alive if the unit has WatchdogSec set. Ready after Stopping sends
// nothing.
func (n *Notifier) Ready() {
	n.lifecycle.Lock()
	defer n.lifecycle.Unlock()
	if n.stopped || n.stop != nil {
		return
	}

	n.notify(daemon.SdNotifyReady + "\n" + "STATUS=" + n.status())

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		n.logger.Warn("Failed to read watchdog settings", "error", err)
		return
	}
	if interval == 0 {
		return
	}
	n.stop = make(chan struct{})
	n.done = make(chan struct{})
	go n.watchdog(interval/2, n.stop, n.done)
	n.logger.Debug("Watchdog keep-alive enabled", "interval", interval/2)
}

// Stopping sends STOPPING=1 and ends the watchdog keep-alive. Only the
// first call has an effect.
func (n *Notifier) Stopping() {
	n.Unsubscribe()

	n.lifecycle.Lock()
	defer n.lifecycle.Unlock()
	if n.stopped {
		return
	}
	n.stopped = true
	if n.stop != nil {
		close(n.stop)
		<-n.done
		n.stop, n.done = nil, nil
	}
	n.notify(daemon.SdNotifyStopping)
}

// Subscribe keeps STATUS= current with mode and period changes.
func (n *Notifier) Subscribe(bus *events.Bus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unsubs = append(n.unsubs,
		bus.Subscribe(func(e events.ModeChangedEvent) {
			n.mu.Lock()
			n.mode = e.Mode
			n.mu.Unlock()
			n.notify("STATUS=" + n.status())
		}),
		bus.Subscribe(func(e events.PeriodChangedEvent) {
			n.mu.Lock()
			n.period = e.PeriodMs
			n.mu.Unlock()
			n.notify("STATUS=" + n.status())
		}),
	)
}

// Unsubscribe detaches from the event bus.
func (n *Notifier) Unsubscribe() {
	n.mu.Lock()
	unsubs := n.unsubs
	n.unsubs = nil
	n.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

func (n *Notifier) status() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fmt.Sprintf("mode=%s period=%dms", n.mode, n.period)
}

func (n *Notifier) watchdog(every time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n.notify(daemon.SdNotifyWatchdog)
		}
	}
}

func (n *Notifier) notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		n.logger.Warn("Failed to notify systemd", "error", err)
		return
	}
	if sent {
		n.logger.Debug("Notified systemd", "state", state)
	}
}
