package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/calendar"
	"github.com/borgmon/zooom/pkg/launcher"
	"github.com/borgmon/zooom/pkg/models"
	"github.com/borgmon/zooom/pkg/selector"
	"github.com/borgmon/zooom/pkg/ui"
)

func (z *Zooom) newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Open the meeting in session now (default command)",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  z.runJoin,
	}
}

func (z *Zooom) runJoin(_ *cobra.Command, _ []string) error {
	pool, err := z.loadPool()
	if err != nil {
		return err
	}

	candidates := calendar.ActiveMeetings(z.log, pool, z.now(), z.config.Buffer())
	meeting, err := selector.Select(candidates, z.strategy())
	if errors.Is(err, selector.ErrNoCandidates) {
		fmt.Fprintln(z.stderr, "No meeting found!")
		return nil
	}
	if err != nil {
		return err
	}

	if z.config.DryRun {
		fmt.Fprintln(z.stdout, launcher.JoinURL(meeting))
		return nil
	}

	opener, err := z.newOpener()
	if err != nil {
		return err
	}
	proc, err := launcher.New(opener, z.log).Join(meeting)
	if err != nil {
		return err
	}
	if proc != nil {
		_ = proc.Release()
	}

	fmt.Fprintf(z.stdout, "Joining Meeting: %s\n", meeting.Name)

	if z.config.Chime && z.playChime != nil {
		if err := z.playChime(); err != nil {
			z.log.Warn("chime failed", zap.Error(err))
		}
	}
	return nil
}

func (z *Zooom) strategy() selector.Strategy {
	switch z.config.Chooser {
	case models.ChooserPrompt:
		return selector.Prompt{In: z.stdin, Out: z.stderr}
	case models.ChooserGUI:
		return ui.Picker{Title: "zooom"}
	default:
		return selector.First{}
	}
}
