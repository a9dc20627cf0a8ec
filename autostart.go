package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
	"github.com/spf13/cobra"
)

func autostartApp() (*autostart.App, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	return &autostart.App{
		Name:        "meeting-countdown",
		DisplayName: "Meeting Countdown",
		Exec:        []string{execPath, "run"},
	}, nil
}

func setupAutostart(enable bool, logger *slog.Logger) error {
	app, err := autostartApp()
	if err != nil {
		return err
	}

	switch {
	case enable && !app.IsEnabled():
		if err := app.Enable(); err != nil {
			return err
		}
		logger.Info("autostart enabled")
	case !enable && app.IsEnabled():
		if err := app.Disable(); err != nil {
			return err
		}
		logger.Info("autostart disabled")
	}
	return nil
}

func newAutostartCommand(mc *MeetingCountdown) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "autostart enable|disable|status",
		Short:     "Start meeting-countdown at login",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"enable", "disable", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "status" {
				app, err := autostartApp()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "autostart enabled: %t\n", app.IsEnabled())
				return nil
			}

			enable := args[0] == "enable"
			if err := setupAutostart(enable, mc.logger); err != nil {
				return err
			}
			mc.config.AutoStart = enable
			return mc.store.Save(mc.config)
		},
	}
	return cmd
}
