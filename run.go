package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/borgmon/meeting-countdown/pkg/calendar"
	"github.com/borgmon/meeting-countdown/pkg/dispatch"
	"github.com/borgmon/meeting-countdown/pkg/label"
	"github.com/borgmon/meeting-countdown/pkg/models"
	"github.com/borgmon/meeting-countdown/pkg/platform"
	"github.com/borgmon/meeting-countdown/pkg/queue"
	"github.com/borgmon/meeting-countdown/pkg/scheduler"
)

func newRunCommand(mc *MeetingCountdown) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read today's meetings and count down to each one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun {
				mc.config.Dispatchers = []string{"log"}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mc.run(ctx)
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringSlice("dispatcher", nil, "shortcuts, window, chime or log (repeatable)")
	cmd.Flags().String("daily-at", "", `cron schedule to repeat the run on, e.g. "0 8 * * 1-5"`)
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().Duration("poll-interval", 0, "longest wait between queue checks")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log countdowns instead of starting them")
	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("labels", "l", "", "file with one calendar label per line, - for stdin")
	cmd.Flags().Bool("allow-24h", false, "accept labels with 24-hour times and no am/pm")
	cmd.Flags().Bool("inherit-meridiem", false, `read "1:00 – 2:30pm" as starting at 1:00pm`)
}

func (mc *MeetingCountdown) run(ctx context.Context) error {
	if !mc.config.HasInputs() {
		return errors.New("no meetings to read: set labels_file or ical_sources")
	}

	if mc.config.AutoStart {
		if err := setupAutostart(true, mc.logger); err != nil {
			mc.logger.Warn("failed to setup autostart", "error", err)
		}
	}

	if slices.Contains(mc.config.Dispatchers, "window") {
		return mc.runWithApp(ctx)
	}
	return mc.serve(ctx)
}

// runWithApp runs the fyne event loop on the main goroutine and the scheduler beside it.
func (mc *MeetingCountdown) runWithApp(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	mc.cancel = cancel

	mc.app = app.NewWithID("com.borgmon.meeting-countdown")
	mc.tray = newTray(mc.app, mc.quit)

	var (
		wg     sync.WaitGroup
		runErr error
	)
	mc.app.Lifecycle().SetOnStarted(func() {
		platform.HideFromDock()
		wg.Add(1)
		go func() {
			defer wg.Done()
			runErr = mc.serve(ctx)
			fyne.Do(mc.app.Quit)
		}()
	})
	mc.app.Run()
	cancel()
	wg.Wait()
	return runErr
}

func (mc *MeetingCountdown) serve(ctx context.Context) error {
	d, err := mc.buildDispatcher()
	if err != nil {
		return err
	}
	defer func() {
		if err := dispatch.Close(d); err != nil {
			mc.logger.Warn("failed to close dispatcher", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	if mc.config.MetricsAddr != "" {
		g.Go(func() error {
			mc.logger.Info("serving metrics", "addr", mc.config.MetricsAddr)
			return mc.metrics.Serve(runCtx, mc.config.MetricsAddr)
		})
	}
	g.Go(func() error {
		defer cancel()
		return mc.loop(runCtx, d)
	})
	return g.Wait()
}

func (mc *MeetingCountdown) loop(ctx context.Context, d dispatch.Dispatcher) error {
	if mc.config.DailyAt == "" {
		return mc.runDay(ctx, d)
	}

	daily, err := scheduler.NewDaily(mc.config.DailyAt, mc.config.PollInterval)
	if err != nil {
		return err
	}
	daily.SetLogger(mc.logger)

	if err := mc.runDay(ctx, d); err != nil {
		mc.logger.Error("run failed", "error", err)
	}
	err = daily.Run(ctx, func(ctx context.Context) error {
		return mc.runDay(ctx, d)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runDay extracts today's meetings and counts down through them.
func (mc *MeetingCountdown) runDay(ctx context.Context, d dispatch.Dispatcher) error {
	logger := mc.logger.With("run_id", uuid.NewString())
	now := time.Now()

	events, _, err := mc.collectEvents(ctx, logger, now)
	if err != nil {
		return err
	}
	q := queue.New(events)
	logger.Debug("queue built", "events", q.Len())
	logAgenda(logger, q.RelevantFor(now))
	if mc.tray != nil {
		mc.tray.SetQueue(q)
	}

	s := scheduler.New(q, d, scheduler.Config{
		PollInterval:    mc.config.PollInterval,
		DispatchTimeout: mc.config.DispatchTimeout,
	})
	s.SetLogger(logger)
	s.AddObserver(mc.metrics)
	if mc.tray != nil {
		s.AddObserver(mc.tray)
	}

	reason := s.Run(ctx)
	if reason == scheduler.StopLeadOutOfRange {
		logger.Warn("stopped early: next meeting is too far away or has an invalid time")
	}
	return nil
}

// collectEvents reads label events first, then calendar events, keeping discovery order.
func (mc *MeetingCountdown) collectEvents(ctx context.Context, logger *slog.Logger, now time.Time) ([]models.Event, *label.Report, error) {
	events := []models.Event{}
	var report *label.Report

	if mc.config.LabelsFile != "" {
		labels, err := mc.readLabels()
		if err != nil {
			return nil, nil, err
		}
		interpreter := label.NewInterpreter(label.Options{
			Allow24Hour:     mc.config.Allow24hLabels,
			InheritMeridiem: mc.config.InheritMeridiem,
		})
		found, r := label.NewExtractor(interpreter, mc.metrics, logger).Extract(labels, now)
		events = append(events, found...)
		report = &r
	}

	if len(mc.config.ICalSources) > 0 {
		fetcher := calendar.NewFetcher(nil, mc.metrics, logger)
		events = append(events, fetcher.FetchAll(ctx, mc.config.ICalSources, now)...)
	}

	events, dropped := queue.Dedupe(events)
	if dropped > 0 {
		logger.Info("dropped meetings found in more than one source", "count", dropped)
	}
	return events, report, nil
}

func (mc *MeetingCountdown) buildDispatcher() (dispatch.Dispatcher, error) {
	var ds dispatch.Multi
	for _, name := range mc.config.Dispatchers {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "shortcuts":
			ds = append(ds, dispatch.NewShortcuts(mc.config.ShortcutName, mc.logger))
		case "log":
			ds = append(ds, dispatch.NewLog(mc.logger))
		case "chime":
			if mc.config.ChimeFile == "" {
				return nil, errors.New("chime dispatcher needs chime_file")
			}
			chime, err := dispatch.NewChime(mc.config.ChimeFile, mc.logger)
			if err != nil {
				return nil, err
			}
			ds = append(ds, chime)
		case "window":
			if mc.app == nil {
				return nil, errors.New("window dispatcher needs the desktop app")
			}
			ds = append(ds, newCountdownWindows(mc.app, mc.logger))
		default:
			return nil, fmt.Errorf("unknown dispatcher %q", name)
		}
	}

	switch len(ds) {
	case 0:
		return nil, errors.New("no dispatcher configured")
	case 1:
		return ds[0], nil
	}
	return ds, nil
}

func logAgenda(logger *slog.Logger, events []models.Event) {
	logger.Info("meetings today", "count", len(events))
	for i, e := range events {
		logger.Info("meeting",
			"n", i+1,
			"title", e.Title,
			"start", e.Start.Format("3:04 PM"),
			"end", e.End.Format("3:04 PM"),
			"duration_minutes", e.DurationMinutes)
	}
}

// readLabels reads the labels file on every run. Stdin can only be drained
// once, so its labels are kept for later runs.
func (mc *MeetingCountdown) readLabels() ([]string, error) {
	if mc.config.LabelsFile == "-" && mc.stdinLabels != nil {
		return mc.stdinLabels, nil
	}
	labels, err := calendar.ReadLabelsFile(mc.config.LabelsFile)
	if err != nil {
		return nil, err
	}
	if mc.config.LabelsFile == "-" {
		mc.stdinLabels = labels
	}
	return labels, nil
}
