package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// DefaultUnit is the unit name the service is installed under.
const DefaultUnit = "ledchaser.service"

// Manager handles service lifecycle operations via D-Bus.
type Manager struct {
	conn *dbus.Conn
	unit string
}

// NewManager connects to the system bus, or the user bus when user is true.
func NewManager(ctx context.Context, unit string, user bool) (*Manager, error) {
	if unit == "" {
		unit = DefaultUnit
	}
	var (
		conn *dbus.Conn
		err  error
	)
	if user {
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	return &Manager{conn: conn, unit: unit}, nil
}

// Status returns the unit's ActiveState, e.g. "active" or "failed".
func (m *Manager) Status(ctx context.Context) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, m.unit, "ActiveState")
	if err != nil {
		return "", err
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected ActiveState value %s", prop.Value.String())
	}
	return state, nil
}

// Restart restarts the unit and waits for the job to finish.
func (m *Manager) Restart(ctx context.Context) (string, error) {
	return m.runJob(ctx, m.conn.RestartUnitContext)
}

// Stop stops the unit and waits for the job to finish. All LEDs are
// switched off by the service on the way down.
func (m *Manager) Stop(ctx context.Context) (string, error) {
	return m.runJob(ctx, m.conn.StopUnitContext)
}

// Start starts the unit and waits for the job to finish.
func (m *Manager) Start(ctx context.Context) (string, error) {
	return m.runJob(ctx, m.conn.StartUnitContext)
}

type unitJob func(ctx context.Context, name, mode string, ch chan<- string) (int, error)

func (m *Manager) runJob(ctx context.Context, job unitJob) (string, error) {
	ch := make(chan string, 1)
	if _, err := job(ctx, m.unit, "replace", ch); err != nil {
		return "", err
	}
	select {
	case result := <-ch:
		return result, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Unit returns the managed unit name.
func (m *Manager) Unit() string {
	return m.unit
}

// Close closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
