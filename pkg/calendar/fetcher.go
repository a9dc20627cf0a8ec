package calendar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

// Recorder receives fetch outcomes. metrics.Registry implements it.
type Recorder interface {
	CalendarFetched(source string, events int, err error)
}

// Fetcher downloads iCal feeds and returns today's timed events.
type Fetcher struct {
	client   *http.Client
	recorder Recorder
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher. client, recorder and logger may be nil.
func NewFetcher(client *http.Client, recorder Recorder, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, recorder: recorder, logger: logger}
}

// FetchEvents fetches and parses the events of source that start on now's date.
func (f *Fetcher) FetchEvents(ctx context.Context, source models.ICalSource, now time.Time) ([]models.Event, error) {
	events, err := f.fetchAndParseICal(ctx, source, now)
	if f.recorder != nil {
		f.recorder.CalendarFetched(source.ID, len(events), err)
	}
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", source.Name, err)
	}
	return events, nil
}

// FetchAll fetches every valid source in order. A failing source is logged and skipped.
func (f *Fetcher) FetchAll(ctx context.Context, sources []models.ICalSource, now time.Time) []models.Event {
	all := []models.Event{}
	for _, source := range sources {
		if !source.Validate() {
			f.logger.Warn("skipping incomplete iCal source", "id", source.ID)
			continue
		}
		events, err := f.FetchEvents(ctx, source, now)
		if err != nil {
			f.logger.Error("error fetching iCal source", "name", source.Name, "url", source.URL, "error", err)
			continue
		}
		f.logger.Info("synced events", "source", source.Name, "events", len(events))
		all = append(all, events...)
	}
	return all
}

func (f *Fetcher) fetchAndParseICal(ctx context.Context, source models.ICalSource, now time.Time) ([]models.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	bodyStr := string(body)
	if err := validateICalFormat(bodyStr); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(strings.NewReader(bodyStr))
	events := []models.Event{}
	seenEventIDs := make(map[string]bool)
	seenEventKeys := make(map[string]bool) // key: title + start time
	stats := &filterStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			stats.totalComponents++
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.totalEvents++

			normalizeComponentTimezones(comp)
			parsed := parseEvent(comp, now.Location())
			parsed.Source = source.ID
			// Fallback: if no iCal UID, use deterministic ID based on start time and title
			if parsed.ID == "" {
				parsed.ID = source.ID + "-" + parsed.Start.Format(time.RFC3339) + "-" + parsed.Title
			}

			if f.shouldIncludeEvent(parsed, now, stats) && !f.isDuplicate(parsed.Event, seenEventIDs, seenEventKeys, stats) {
				events = append(events, parsed.Event)
			}
		}
	}

	stats.logSummary(f.logger, source.Name, len(events))
	return events, nil
}

func validateICalFormat(bodyStr string) error {
	// Check if response is HTML instead of iCalendar
	upperBody := strings.ToUpper(strings.TrimSpace(bodyStr))
	if strings.HasPrefix(upperBody, "<!DOCTYPE") || strings.HasPrefix(upperBody, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}

	if !strings.HasPrefix(strings.TrimSpace(bodyStr), "BEGIN:VCALENDAR") {
		preview := strings.TrimSpace(bodyStr)
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar format - expected BEGIN:VCALENDAR, got: %s", preview)
	}

	return nil
}

func (f *Fetcher) isDuplicate(event models.Event, seenEventIDs, seenEventKeys map[string]bool, stats *filterStats) bool {
	if seenEventIDs[event.ID] {
		stats.filteredDuplicates++
		f.logger.Debug("event filtered", "reason", "duplicate id", "title", event.Title, "id", event.ID)
		return true
	}

	eventKey := event.Title + "|" + event.Start.Format(time.RFC3339)
	if seenEventKeys[eventKey] {
		stats.filteredDuplicates++
		f.logger.Debug("event filtered", "reason", "duplicate title and time", "title", event.Title,
			"start", event.Start.Format("2006-01-02 15:04"))
		return true
	}

	seenEventIDs[event.ID] = true
	seenEventKeys[eventKey] = true
	return false
}

type filterStats struct {
	totalComponents     int
	totalEvents         int
	filteredMissingTime int
	filteredCancelled   int
	filteredAllDay      int
	filteredNotToday    int
	filteredNonPositive int
	filteredDuplicates  int
}

func (s *filterStats) logSummary(logger *slog.Logger, source string, includedCount int) {
	totalFiltered := s.filteredMissingTime + s.filteredCancelled + s.filteredAllDay +
		s.filteredNotToday + s.filteredNonPositive + s.filteredDuplicates
	logger.Info("calendar parsed",
		"source", source,
		"components", s.totalComponents,
		"events", s.totalEvents,
		"included", includedCount,
		"filtered", totalFiltered)
	if totalFiltered > 0 {
		logger.Debug("calendar filter breakdown",
			"source", source,
			"cancelled", s.filteredCancelled,
			"all_day", s.filteredAllDay,
			"not_today", s.filteredNotToday,
			"missing_time", s.filteredMissingTime,
			"non_positive_duration", s.filteredNonPositive,
			"duplicates", s.filteredDuplicates)
	}
}
