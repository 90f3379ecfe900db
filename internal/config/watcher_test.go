package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/ledchaser/internal/logging"
)

type testConfig struct {
	Name  string `toml:"name"`
	Value int    `toml:"value"`
}

func loadTestConfig(path string) (testConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return testConfig{}, err
	}
	var cfg testConfig
	err = toml.Unmarshal(data, &cfg)
	return cfg, err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatcher[T any](t *testing.T, path string, loader func(string) (T, error), opts ...WatcherOption[T]) *Watcher[T] {
	t.Helper()
	w := NewConfigWatcher(path, loader, newTestLogger(), opts...)
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	})
	return w
}

func TestConfigWatcher_BasicReload(t *testing.T) {
	path := writeConfig(t, "name = \"initial\"\nvalue = 1\n")

	received := make(chan testConfig, 1)
	w := startWatcher(t, path, loadTestConfig, WithDebounce[testConfig](50*time.Millisecond))
	w.OnReload(func(cfg testConfig) { received <- cfg })

	if err := os.WriteFile(path, []byte("name = \"updated\"\nvalue = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Name != "updated" || cfg.Value != 42 {
			t.Errorf("got %+v, want name=updated, value=42", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcher_ReplacedByRename(t *testing.T) {
	path := writeConfig(t, "value = 1\n")

	received := make(chan testConfig, 1)
	w := startWatcher(t, path, loadTestConfig, WithDebounce[testConfig](50*time.Millisecond))
	w.OnReload(func(cfg testConfig) { received <- cfg })

	tmp := filepath.Join(filepath.Dir(path), ".config.toml.swp")
	if err := os.WriteFile(tmp, []byte("value = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Value != 7 {
			t.Errorf("value = %d, want 7", cfg.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rename over the config file not noticed")
	}
}

func TestConfigWatcher_IgnoresSiblings(t *testing.T) {
	path := writeConfig(t, "value = 1\n")

	var count atomic.Int32
	w := startWatcher(t, path, loadTestConfig, WithDebounce[testConfig](20*time.Millisecond))
	w.OnReload(func(testConfig) { count.Add(1) })

	if err := os.WriteFile(filepath.Join(filepath.Dir(path), "other.toml"), []byte("value = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("sibling file triggered %d reloads", got)
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	path := writeConfig(t, "value = 1\n")

	var count1, count2 atomic.Int32
	w := startWatcher(t, path, loadTestConfig, WithDebounce[testConfig](50*time.Millisecond))
	w.OnReload(func(testConfig) { count1.Add(1) })
	unsub2 := w.OnReload(func(testConfig) { count2.Add(1) })

	if err := os.WriteFile(path, []byte("value = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)

	unsub2()

	if err := os.WriteFile(path, []byte("value = 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)

	if got := count1.Load(); got != 2 {
		t.Errorf("handler1: expected 2 calls, got %d", got)
	}
	if got := count2.Load(); got != 1 {
		t.Errorf("handler2: expected 1 call, got %d", got)
	}
}

func TestConfigWatcher_ErrorHandler(t *testing.T) {
	path := writeConfig(t, "name = \"valid\"\nvalue = 1\n")

	errorReceived := make(chan error, 1)
	configReceived := make(chan testConfig, 1)
	w := startWatcher(t, path, loadTestConfig,
		WithDebounce[testConfig](50*time.Millisecond),
		WithErrorHandler[testConfig](func(err error) { errorReceived <- err }),
	)
	w.OnReload(func(cfg testConfig) { configReceived <- cfg })

	if err := os.WriteFile(path, []byte("invalid toml [[["), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errorReceived:
	case <-configReceived:
		t.Fatal("config handler should not be called on error")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestConfigWatcher_Debounce(t *testing.T) {
	path := writeConfig(t, "value = 0\n")

	var count, lastValue atomic.Int32
	w := startWatcher(t, path, loadTestConfig, WithDebounce[testConfig](200*time.Millisecond))
	w.OnReload(func(cfg testConfig) {
		count.Add(1)
		lastValue.Store(int32(cfg.Value))
	})

	for i := 1; i <= 5; i++ {
		if err := os.WriteFile(path, fmt.Appendf(nil, "value = %d\n", i), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got := lastValue.Load(); got != 5 {
		t.Errorf("expected final value 5, got %d", got)
	}
}

func TestConfigWatcher_ConcurrentHandlers(t *testing.T) {
	path := writeConfig(t, "name = \"test\"\n")
	w := startWatcher(t, path, loadTestConfig, WithDebounce[testConfig](10*time.Millisecond))

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := w.OnReload(func(testConfig) {})
			time.Sleep(time.Millisecond)
			unsub()
		}()
	}

	for i := range 10 {
		if err := os.WriteFile(path, fmt.Appendf(nil, "value = %d\n", i), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()
}

func TestConfigWatcher_StopTwice(t *testing.T) {
	path := writeConfig(t, "value = 1\n")

	var count atomic.Int32
	w := NewConfigWatcher(path, loadTestConfig, newTestLogger(), WithDebounce[testConfig](20*time.Millisecond))
	w.OnReload(func(testConfig) { count.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}

	if err := os.WriteFile(path, []byte("value = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Errorf("handler called %d times after Stop", got)
	}
}

func TestConfigWatcher_LoggingReload(t *testing.T) {
	path := writeConfig(t, "[logging]\nlevel = \"info\"\n")

	received := make(chan logging.Config, 1)
	w := startWatcher(t, path, LoadLoggingConfig, WithDebounce[logging.Config](50*time.Millisecond))
	w.OnReload(func(cfg logging.Config) { received <- cfg })

	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\nsequencer = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Level != "debug" || cfg.Modules["sequencer"] != "warn" {
			t.Errorf("reloaded logging config = %+v", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for logging reload")
	}
}
