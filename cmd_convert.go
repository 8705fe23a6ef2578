package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (z *Zooom) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite a schedule in the format named by the output extension",
		Example: "  zooom convert meetings.json meetings.yaml\n" +
			"  zooom convert work.ics work.toml",
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			meetings, err := z.schedules.Load(args[0])
			if err != nil {
				return err
			}
			if err := z.schedules.Save(args[1], meetings); err != nil {
				return err
			}
			fmt.Fprintf(z.stdout, "Wrote %d meetings to %s\n", len(meetings), args[1])
			return nil
		},
	}
}
