package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/smazurov/ledchaser/internal/api"
	"github.com/spf13/cobra"
)

// CreateCtlCmd creates the ctl command, a client for a running daemon.
func CreateCtlCmd() *cobra.Command {
	var socket string

	cmd := &cobra.Command{
		Use:   "ctl",
		Short: "Read or change mode and period of a running ledchaser",
		Long: `Talks to the ledchaser daemon over its unix socket. Values are validated by the daemon: ` +
			`a rejected write leaves the previous value in place and is reported as "ignored".`,
	}
	cmd.PersistentFlags().StringVarP(&socket, "socket", "s", api.DefaultSocket, "API socket path")

	cmd.AddCommand(&cobra.Command{
		Use:   "get [attribute]",
		Short: "Print one attribute, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
			defer cancel()
			client := api.NewClient(socket)

			if len(args) == 1 {
				attr, err := client.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), attr.Value)
				return nil
			}

			list, err := client.List(ctx)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(list.Attributes))
			for name := range list.Attributes {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(c.OutOrStdout(), "%s/%s = %s\n", list.Group, name, list.Attributes[name])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <attribute> <value>",
		Short: "Write an attribute",
		Example: `  ledchaser ctl set mode izq
  ledchaser ctl set period 250`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
			defer cancel()

			res, err := api.NewClient(socket).Set(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if !res.Applied {
				fmt.Fprintf(c.OutOrStdout(), "%s: %q ignored, still %s\n", res.Name, args[1], res.Value)
				return nil
			}
			fmt.Fprintf(c.OutOrStdout(), "%s = %s\n", res.Name, res.Value)
			return nil
		},
	})

	return cmd
}
