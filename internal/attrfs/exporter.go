// Package attrfs mirrors an attribute group into a directory of plain text
// files, one per attribute. Writing a file stores the value; the file is
// then rewritten with the value actually in effect, so a rejected write
// reverts and an accepted one is normalized.
package attrfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/smazurov/ledchaser/internal/attrs"
	"github.com/smazurov/ledchaser/internal/events"
)

// DefaultRoot is where attribute groups are exported.
const DefaultRoot = "/run/ledchaser"

const fileMode = 0o664

// Exporter serves one attribute group as <root>/<group>/<attribute>.
type Exporter struct {
	root     string
	group    *attrs.Group
	bus      *events.Bus
	logger   *slog.Logger
	debounce time.Duration

	dir     string
	watcher *fsnotify.Watcher
	unsubs  []func()
	fileMu  sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithDebounce sets how long the exporter waits after the last write event
// before reading a file. Default is 50ms.
func WithDebounce(d time.Duration) Option {
	return func(e *Exporter) {
		e.debounce = d
	}
}

// New creates an exporter for group under root. bus may be nil, in which
// case changes made through other transports are not mirrored.
func New(root string, group *attrs.Group, bus *events.Bus, logger *slog.Logger, opts ...Option) *Exporter {
	if root == "" {
		root = DefaultRoot
	}
	e := &Exporter{
		root:     root,
		group:    group,
		bus:      bus,
		logger:   logger,
		debounce: 50 * time.Millisecond,
		dir:      filepath.Join(root, group.Name()),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the group directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Path returns the file path of an attribute.
func (e *Exporter) Path(name string) string {
	return filepath.Join(e.dir, name)
}

// Start creates the group directory, writes every attribute and begins
// watching for writes.
func (e *Exporter) Start() error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create attribute directory %s: %w", e.dir, err)
	}

	for _, name := range e.group.Names() {
		if err := e.sync(name); err != nil {
			return err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if addErr := watcher.Add(e.dir); addErr != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", e.dir, addErr)
	}
	e.watcher = watcher

	if e.bus != nil {
		e.unsubs = append(e.unsubs,
			e.bus.Subscribe(func(ev events.ModeChangedEvent) {
				if ev.Group == e.group.Name() {
					e.syncAll()
				}
			}),
			e.bus.Subscribe(func(ev events.PeriodChangedEvent) {
				if ev.Group == e.group.Name() {
					e.syncAll()
				}
			}),
		)
	}

	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.done = make(chan struct{})
	go e.watch()

	e.logger.Info("Attribute directory exported", "dir", e.dir, "attributes", e.group.Names())
	return nil
}

// Stop stops watching and removes the group directory.
func (e *Exporter) Stop() error {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil

	var errs []error
	if e.cancel != nil {
		e.cancel()
		if err := e.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
		<-e.done
		e.cancel = nil
	}

	if err := os.RemoveAll(e.dir); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", e.dir, err))
	}
	return errors.Join(errs...)
}

// watch collects write events per attribute and handles them once the
// debounce window passes without further writes.
func (e *Exporter) watch() {
	defer close(e.done)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-e.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !e.group.Has(name) {
				continue
			}
			pending[name] = struct{}{}

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(e.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			for name := range pending {
				e.handleWrite(name)
				delete(pending, name)
			}

		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Warn("Attribute watcher error", "error", err)
		}
	}
}

// handleWrite stores the file's content and writes back the value in effect.
func (e *Exporter) handleWrite(name string) {
	data, err := os.ReadFile(e.Path(name))
	if err != nil {
		e.logger.Debug("Failed to read attribute file", "attribute", name, "error", err)
		return
	}

	value := string(data)
	if strings.TrimSpace(value) == "" {
		// truncated but not yet written
		return
	}

	current, err := e.group.Show(name)
	if err != nil {
		return
	}
	if strings.TrimRight(value, "\r\n") == current {
		return
	}

	applied, err := e.group.Store(name, value)
	if err != nil {
		e.logger.Warn("Failed to store attribute", "attribute", name, "error", err)
		return
	}
	e.logger.Debug("Attribute file written", "attribute", name, "value", strings.TrimSpace(value), "applied", applied)

	if err := e.sync(name); err != nil {
		e.logger.Warn("Failed to rewrite attribute file", "attribute", name, "error", err)
	}
}

func (e *Exporter) syncAll() {
	for _, name := range e.group.Names() {
		if err := e.sync(name); err != nil {
			e.logger.Warn("Failed to rewrite attribute file", "attribute", name, "error", err)
		}
	}
}

// sync writes the current value of name if the file does not already hold it.
func (e *Exporter) sync(name string) error {
	e.fileMu.Lock()
	defer e.fileMu.Unlock()

	current, err := e.group.Show(name)
	if err != nil {
		return err
	}
	content := current + "\n"

	path := e.Path(name)
	if existing, readErr := os.ReadFile(path); readErr == nil && string(existing) == content {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
