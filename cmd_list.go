package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/borgmon/zooom/pkg/calendar"
)

func (z *Zooom) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every scheduled meeting and whether it is in session now",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			pool, err := z.loadPool()
			if err != nil {
				return err
			}

			now := z.now()
			buffer := z.config.Buffer()

			w := tabwriter.NewWriter(z.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRECURRENCE\tSTART\tEND\tACTIVE")
			for _, m := range pool {
				active := "no"
				if calendar.IsActive(m, now, buffer) {
					active = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Name, m.Recurrence, m.Start, m.End, active)
			}
			return w.Flush()
		},
	}
}
