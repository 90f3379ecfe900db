package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/smazurov/ledchaser/internal/systemd"
	"github.com/spf13/cobra"
)

// unitAction is a Manager method expression; the receiver comes first.
type unitAction func(*systemd.Manager, context.Context) (string, error)

var serviceActions = []struct {
	use   string
	short string
	run   unitAction
}{
	{"status", "Print the unit's active state", (*systemd.Manager).Status},
	{"start", "Start the unit", (*systemd.Manager).Start},
	{"stop", "Stop the unit, switching all LEDs off", (*systemd.Manager).Stop},
	{"restart", "Restart the unit", (*systemd.Manager).Restart},
}

// CreateServiceCmd creates the service command controlling the systemd unit.
func CreateServiceCmd() *cobra.Command {
	var (
		unit string
		user bool
	)

	cmd := &cobra.Command{
		Use:   "service",
		Short: "Query or control the ledchaser systemd unit",
	}
	cmd.PersistentFlags().StringVar(&unit, "unit", systemd.DefaultUnit, "Unit name")
	cmd.PersistentFlags().BoolVar(&user, "user", false, "Use the user service manager")

	withManager := func(fn unitAction) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
			defer cancel()

			m, err := systemd.NewManager(ctx, unit, user)
			if err != nil {
				return err
			}
			defer m.Close()

			out, err := fn(m, ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Unit(), err)
			}
			fmt.Fprintf(c.OutOrStdout(), "%s: %s\n", m.Unit(), out)
			return nil
		}
	}

	for _, action := range serviceActions {
		cmd.AddCommand(&cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE:  withManager(action.run),
		})
	}

	return cmd
}
