package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/smazurov/ledchaser/internal/api"
	"github.com/smazurov/ledchaser/internal/attrfs"
	"github.com/smazurov/ledchaser/internal/attrs"
	"github.com/smazurov/ledchaser/internal/config"
	"github.com/smazurov/ledchaser/internal/events"
	"github.com/smazurov/ledchaser/internal/led"
	"github.com/smazurov/ledchaser/internal/logging"
	"github.com/smazurov/ledchaser/internal/metrics"
	"github.com/smazurov/ledchaser/internal/sequencer"
	"github.com/smazurov/ledchaser/internal/systemd"
)

// errStopping is returned by start once shutdown has begun.
var errStopping = errors.New("shutdown in progress")

// daemon owns every running component. start and stop hold mu for their
// whole duration, so a stop that arrives during startup waits for it and
// then tears down whatever was started.
type daemon struct {
	opts     *Options
	logger   *slog.Logger
	ctrl     *sequencer.Control
	group    *attrs.Group
	bus      *events.Bus
	notifier *systemd.Notifier

	mu        sync.Mutex
	stopping  bool
	seq       *sequencer.Sequencer
	exporter  *attrfs.Exporter
	server    *api.Server
	collector *metrics.Collector
	watcher   *config.Watcher[logging.Config]
	quit      chan struct{}
}

func newDaemon(opts *Options, ctrl *sequencer.Control, bus *events.Bus) *daemon {
	return &daemon{
		opts:     opts,
		logger:   logging.GetLogger("main"),
		ctrl:     ctrl,
		group:    attrs.NewLEDGroup(opts.Pin, ctrl, bus, logging.GetLogger("attrs")),
		bus:      bus,
		notifier: systemd.NewNotifier(logging.GetLogger("systemd"), ctrl.Mode().String(), ctrl.Period()),
		quit:     make(chan struct{}),
	}
}

// start acquires the LED lines and brings every component up. On error
// anything already started is torn down again.
func (d *daemon) start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopping {
		return errStopping
	}
	if err := d.startLocked(); err != nil {
		d.teardownLocked()
		return err
	}

	d.notifier.Subscribe(d.bus)
	d.notifier.Ready()
	return nil
}

func (d *daemon) startLocked() error {
	offsets, err := led.ParseOffsets(d.opts.LEDLines)
	if err != nil {
		return fmt.Errorf("invalid LED lines %q: %w", d.opts.LEDLines, err)
	}
	bank, err := led.New(led.Config{
		Backend:    d.opts.LEDBackend,
		Chip:       d.opts.LEDChip,
		Offsets:    offsets,
		SysfsRoot:  d.opts.LEDSysfsRoot,
		SysfsNames: led.SplitList(d.opts.LEDSysfsNames),
	}, logging.GetLogger("led"))
	if err != nil {
		return fmt.Errorf("failed to acquire LED lines: %w", err)
	}

	var observer sequencer.Observer
	if d.opts.MetricsEnabled {
		d.collector = metrics.New(d.ctrl)
		d.collector.Subscribe(d.bus)
		observer = d.collector
	}

	seq := sequencer.New(sequencer.Options{
		Bank:     bank,
		Control:  d.ctrl,
		Logger:   logging.GetLogger("sequencer"),
		Observer: observer,
	})
	if err := seq.Start(); err != nil {
		return fmt.Errorf("failed to start sequencer: %w", err)
	}
	d.seq = seq
	d.bus.Publish(events.SequencerStateEvent{Running: true, Timestamp: time.Now().Format(time.RFC3339)})

	if d.opts.AttrsEnabled {
		exporter := attrfs.New(d.opts.AttrsRoot, d.group, d.bus, logging.GetLogger("attrfs"))
		if err := exporter.Start(); err != nil {
			return fmt.Errorf("failed to export attributes under %s: %w", d.opts.AttrsRoot, err)
		}
		d.exporter = exporter
	}

	apiOpts := &api.Options{Group: d.group, EventBus: d.bus, Status: seq}
	if d.collector != nil {
		apiOpts.MetricsHandler = d.collector.Handler()
	}
	server := api.NewServer(apiOpts)
	if err := server.Start(d.opts.APISocket); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	d.server = server

	d.watchConfig()
	return nil
}

// watchConfig hot-reloads log levels. A missing config file disables it.
func (d *daemon) watchConfig() {
	if _, err := os.Stat(d.opts.Config); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("Cannot watch config file", "path", d.opts.Config, "error", err)
		}
		return
	}

	watcher := config.NewConfigWatcher(d.opts.Config, config.LoadLoggingConfig, logging.GetLogger("config"))
	watcher.OnReload(func(cfg logging.Config) {
		logging.SetLevels(cfg)
		d.logger.Info("Log levels reloaded", "level", cfg.Level, "modules", cfg.Modules)
	})
	if err := watcher.Start(); err != nil {
		d.logger.Warn("Config hot reload disabled", "error", err)
		return
	}
	d.watcher = watcher
}

// stop tears everything down and releases wait. Only the first call has
// an effect; a start that has not begun yet will refuse to run.
func (d *daemon) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopping {
		return
	}
	d.stopping = true

	d.notifier.Stopping()
	d.teardownLocked()
	close(d.quit)
}

// wait blocks until stop has finished.
func (d *daemon) wait() {
	<-d.quit
}

func (d *daemon) teardownLocked() {
	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := d.server.Stop(ctx); err != nil {
			d.logger.Warn("Error stopping API server", "error", err)
		}
		cancel()
		d.server = nil
	}
	if d.exporter != nil {
		if err := d.exporter.Stop(); err != nil {
			d.logger.Warn("Error removing attribute files", "error", err)
		}
		d.exporter = nil
	}
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Warn("Error stopping config watcher", "error", err)
		}
		d.watcher = nil
	}
	if d.seq != nil {
		d.seq.Stop()
		d.bus.Publish(events.SequencerStateEvent{Running: false, Timestamp: time.Now().Format(time.RFC3339)})
		d.seq = nil
	}
	if d.collector != nil {
		d.collector.Unsubscribe()
		d.collector = nil
	}
}
