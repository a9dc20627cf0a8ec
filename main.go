package main

import (
	"context"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/borgmon/meeting-countdown/pkg/metrics"
	"github.com/borgmon/meeting-countdown/pkg/models"
	"github.com/borgmon/meeting-countdown/pkg/store"
)

type MeetingCountdown struct {
	store   *store.ConfigStore
	config  *models.Config
	logger  *slog.Logger
	metrics *metrics.Registry

	stdinLabels []string

	// Only set when a window or tray is shown.
	app    fyne.App
	tray   *Tray
	cancel context.CancelFunc
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	mc := &MeetingCountdown{}
	var configPath string

	root := &cobra.Command{
		Use:          "meeting-countdown",
		Short:        "Start a countdown before each of today's meetings",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return mc.initialize(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+store.DefaultPath()+")")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newRunCommand(mc),
		newParseCommand(mc),
		newAutostartCommand(mc),
	)
	return root
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"log-level":        "log_level",
	"labels":           "labels_file",
	"dispatcher":       "dispatchers",
	"daily-at":         "daily_at",
	"metrics-addr":     "metrics_addr",
	"poll-interval":    "poll_interval",
	"allow-24h":        "allow_24h_labels",
	"inherit-meridiem": "inherit_meridiem",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (mc *MeetingCountdown) initialize(cmd *cobra.Command, configPath string) error {
	mc.store = store.NewConfigStore(nil, configPath)
	if err := bindFlags(mc.store.Viper(), cmd.Flags()); err != nil {
		return err
	}

	config, err := mc.store.Load()
	if err != nil {
		return err
	}
	mc.config = config

	logger, err := newLogger(config.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	mc.logger = logger
	slog.SetDefault(logger)

	mc.metrics = metrics.NewRegistry()
	return nil
}

func (mc *MeetingCountdown) quit() {
	if mc.cancel != nil {
		mc.cancel()
	}
}
