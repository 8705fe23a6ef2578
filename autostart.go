package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/emersion/go-autostart"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/models"
)

func (z *Zooom) newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Join the meeting in session whenever you log in",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Run zooom with the current sources, buffers and chooser at login",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(_ *cobra.Command, _ []string) error {
				if err := z.requireSources(); err != nil {
					return err
				}
				app, err := z.autostartApp()
				if err != nil {
					return err
				}
				return z.setupAutostart(app, true)
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop running zooom at login",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(_ *cobra.Command, _ []string) error {
				return z.setupAutostart(&autostart.App{Name: "zooom"}, false)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether zooom runs at login",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(_ *cobra.Command, _ []string) error {
				if (&autostart.App{Name: "zooom"}).IsEnabled() {
					fmt.Fprintln(z.stdout, "Autostart enabled")
				} else {
					fmt.Fprintln(z.stdout, "Autostart disabled")
				}
				return nil
			},
		},
	)
	return cmd
}

func (z *Zooom) autostartApp() (*autostart.App, error) {
	// Get the executable path
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	args, err := loginArgs(z.config)
	if err != nil {
		return nil, err
	}

	return &autostart.App{
		Name:        "zooom",
		DisplayName: "Zooom",
		Exec:        append([]string{execPath}, args...),
	}, nil
}

// loginArgs rebuilds the command line that reproduces config at login.
// Sources are made absolute since the login session has another working
// directory.
func loginArgs(config *models.Config) ([]string, error) {
	args := []string{}
	for _, source := range config.Sources {
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, err
		}
		args = append(args, "--source", abs)
	}
	if config.BufferStart != 0 {
		args = append(args, "--buffer-start", strconv.Itoa(config.BufferStart))
	}
	if config.BufferEnd != 0 {
		args = append(args, "--buffer-end", strconv.Itoa(config.BufferEnd))
	}
	if config.Chooser != "" && config.Chooser != models.ChooserFirst {
		args = append(args, "--chooser", string(config.Chooser))
	}
	if config.Chime {
		args = append(args, "--chime")
	}
	if config.LogLevel != "" && config.LogLevel != "warn" {
		args = append(args, "--log-level", config.LogLevel)
	}
	if config.LogFormat != "" {
		args = append(args, "--log-format", config.LogFormat)
	}
	return args, nil
}

func (z *Zooom) setupAutostart(app *autostart.App, enable bool) error {
	if enable {
		if app.IsEnabled() {
			// Replace the entry so new sources or buffers take effect
			if err := app.Disable(); err != nil {
				z.log.Error("failed to replace autostart entry", zap.Error(err))
				return err
			}
		}
		if err := app.Enable(); err != nil {
			z.log.Error("failed to enable autostart", zap.Error(err))
			return err
		}
		fmt.Fprintln(z.stdout, "Autostart enabled")
		return nil
	}

	if app.IsEnabled() {
		if err := app.Disable(); err != nil {
			z.log.Error("failed to disable autostart", zap.Error(err))
			return err
		}
	}
	fmt.Fprintln(z.stdout, "Autostart disabled")
	return nil
}
