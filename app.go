package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/launcher"
	"github.com/borgmon/zooom/pkg/logger"
	"github.com/borgmon/zooom/pkg/models"
	"github.com/borgmon/zooom/pkg/selector"
	"github.com/borgmon/zooom/pkg/store"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 4
	exitInput     = 5
	exitSpawn     = 6
)

type Zooom struct {
	config    *models.Config
	log       *zap.Logger
	schedules *store.ScheduleStore

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	now       func() time.Time
	newOpener func() (launcher.Opener, error)
	playChime func() error

	configFile string
}

// usageError marks bad command line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, selector.ErrSelectionCancelled):
		return exitCancelled
	case errors.Is(err, selector.ErrSelectionInput):
		return exitInput
	case errors.Is(err, launcher.ErrSpawn), errors.Is(err, launcher.ErrUnsupportedPlatform):
		return exitSpawn
	default:
		return exitFailure
	}
}

func (z *Zooom) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zooom",
		Short: "Join the Zoom meeting that is in session right now",
		Long: "zooom reads meeting schedules (json, toml, yaml or ics), finds the meeting\n" +
			"whose window contains the current time and opens it in the Zoom client.",
		Args:              usageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: z.initialize,
		RunE:              z.runJoin,
	}

	flags := root.PersistentFlags()
	flags.StringArrayP("source", "s", nil, "schedule file to read (repeatable)")
	flags.Int("buffer-start", 0, "seconds before a meeting's start at which it can be joined")
	flags.Int("buffer-end", 0, "seconds that must remain before a meeting's end to join it")
	flags.String("chooser", string(models.ChooserFirst), "policy when several meetings match: first, prompt or gui")
	flags.Bool("chime", false, "play a chime after the meeting is opened")
	flags.Bool("dry-run", false, "print the join URL instead of opening it")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log encoding: console or json (default depends on the terminal)")
	flags.StringVar(&z.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/zooom/config.yaml)")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		z.newJoinCmd(),
		z.newListCmd(),
		z.newConvertCmd(),
		z.newAutostartCmd(),
	)
	return root
}

// initialize resolves configuration and builds the logger and schedule store
// shared by every subcommand.
func (z *Zooom) initialize(cmd *cobra.Command, _ []string) error {
	configStore, err := store.NewConfigStore(cmd.Flags())
	if err != nil {
		return err
	}
	config, err := configStore.Load(z.configFile)
	if err != nil {
		return err
	}
	z.config = config

	log, err := logger.New(config.LogLevel, config.LogFormat)
	if err != nil {
		return err
	}
	z.log = log
	z.schedules = store.NewScheduleStore(log)

	z.log.Debug("configuration resolved",
		zap.Strings("sources", config.Sources),
		zap.Int("buffer_start", config.BufferStart),
		zap.Int("buffer_end", config.BufferEnd),
		zap.String("chooser", string(config.Chooser)))
	return nil
}

// requireSources fails when no schedule file has been configured.
func (z *Zooom) requireSources() error {
	if z.config.NeedsConfiguration() {
		return &usageError{err: fmt.Errorf("no schedule source: pass --source or set ZOOOM_SOURCE")}
	}
	return nil
}

func (z *Zooom) loadPool() ([]models.Meeting, error) {
	if err := z.requireSources(); err != nil {
		return nil, err
	}
	return z.schedules.LoadAll(z.config.Sources)
}
