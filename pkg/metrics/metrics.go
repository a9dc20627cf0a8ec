// Package metrics provides Prometheus instrumentation for meeting-countdown.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/borgmon/meeting-countdown/pkg/dispatch"
	"github.com/borgmon/meeting-countdown/pkg/models"
	"github.com/borgmon/meeting-countdown/pkg/scheduler"
)

const namespace = "meeting_countdown"

// Registry holds all metric instances.
type Registry struct {
	// Label Extraction Metrics
	LabelsParsed  prometheus.Counter
	LabelsSkipped *prometheus.CounterVec

	// Calendar Metrics
	CalendarFetches *prometheus.CounterVec
	CalendarEvents  *prometheus.GaugeVec

	// Scheduler Metrics
	SchedulerState    *prometheus.GaugeVec
	MeetingsRemaining prometheus.Gauge
	NextMeetingLead   prometheus.Gauge
	Dispatches        *prometheus.CounterVec
	DispatchDuration  *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewRegistry creates a new metrics registry with its own Prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := NewRegistryWith(reg)
	r.gatherer = reg
	return r
}

// NewRegistryWith creates a new metrics registry with the given Prometheus registerer.
func NewRegistryWith(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		LabelsParsed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "labels",
				Name:      "parsed_total",
				Help:      "Total number of labels turned into events",
			},
		),

		LabelsSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "labels",
				Name:      "skipped_total",
				Help:      "Total number of labels skipped or rejected, by reason",
			},
			[]string{"reason"},
		),

		CalendarFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "calendar",
				Name:      "fetches_total",
				Help:      "Total number of iCal fetches, by source and outcome",
			},
			[]string{"source", "outcome"},
		),

		CalendarEvents: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "calendar",
				Name:      "events",
				Help:      "Events for today returned by the last fetch of each source",
			},
			[]string{"source"},
		),

		SchedulerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "state",
				Help:      "1 for the scheduler's current state, 0 for the others",
			},
			[]string{"state"},
		),

		MeetingsRemaining: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "meetings_remaining",
				Help:      "Meetings today that have not ended",
			},
		),

		NextMeetingLead: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "next_meeting_lead_seconds",
				Help:      "Seconds until the next meeting starts, 0 when none is waiting",
			},
		),

		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "total",
				Help:      "Total number of countdown dispatches, by dispatcher and outcome",
			},
			[]string{"dispatcher", "outcome"},
		),

		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Time spent in a countdown dispatch",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"dispatcher"},
		),
	}
}

// LabelParsed implements label.Recorder.
func (r *Registry) LabelParsed() {
	r.LabelsParsed.Inc()
}

// LabelSkipped implements label.Recorder.
func (r *Registry) LabelSkipped(reason string) {
	r.LabelsSkipped.WithLabelValues(reason).Inc()
}

// CalendarFetched records the outcome of one iCal fetch.
func (r *Registry) CalendarFetched(source string, events int, err error) {
	if err != nil {
		r.CalendarFetches.WithLabelValues(source, "error").Inc()
		return
	}
	r.CalendarFetches.WithLabelValues(source, "ok").Inc()
	r.CalendarEvents.WithLabelValues(source).Set(float64(events))
}

// OnPoll implements scheduler.Observer.
func (r *Registry) OnPoll(now time.Time, state scheduler.State, head *models.Event, remaining int) {
	for _, s := range scheduler.States {
		v := 0.0
		if s == state {
			v = 1
		}
		r.SchedulerState.WithLabelValues(s.String()).Set(v)
	}
	r.MeetingsRemaining.Set(float64(remaining))

	lead := 0.0
	if state == scheduler.Waiting && head != nil {
		lead = head.Start.Sub(now).Seconds()
	}
	r.NextMeetingLead.Set(lead)
}

// OnDispatch implements scheduler.Observer.
func (r *Registry) OnDispatch(dispatcher string, _ models.Event, _ int, err error, took time.Duration) {
	r.Dispatches.WithLabelValues(dispatcher, outcome(err)).Inc()
	r.DispatchDuration.WithLabelValues(dispatcher).Observe(took.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dispatch.ErrDispatchTimeout):
		return "timeout"
	default:
		return "failure"
	}
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	gatherer := r.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
