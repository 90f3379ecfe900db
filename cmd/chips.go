package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/smazurov/ledchaser/internal/led"
	"github.com/spf13/cobra"
)

// CreateChipsCmd creates the chips command listing GPIO chips and lines.
func CreateChipsCmd() *cobra.Command {
	var showLines bool

	cmd := &cobra.Command{
		Use:   "chips",
		Short: "List GPIO chips available to the gpiocdev backend",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			chips, err := led.ListChips()
			if err != nil {
				return err
			}
			if len(chips) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "no GPIO chips found")
				return nil
			}

			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, chip := range chips {
				fmt.Fprintf(w, "%s\t%s\t%d lines\n", chip.Name, chip.Label, len(chip.Lines))
				if !showLines {
					continue
				}
				for _, line := range chip.Lines {
					used := ""
					if line.Used {
						used = "used by " + line.Consumer
					}
					fmt.Fprintf(w, "  %d\t%s\t%s\n", line.Offset, line.Name, used)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&showLines, "lines", "l", false, "Also list every line of each chip")

	return cmd
}
