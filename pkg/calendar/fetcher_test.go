package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/meeting-countdown/pkg/models"
)

var fetchNow = time.Date(2025, time.November, 24, 8, 0, 0, 0, time.UTC)

func icsBody(lines ...string) string {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//meeting-countdown//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR")
	return strings.Join(all, "\r\n") + "\r\n"
}

func vevent(props ...string) []string {
	lines := []string{"BEGIN:VEVENT", "DTSTAMP:20251120T000000Z"}
	lines = append(lines, props...)
	return append(lines, "END:VEVENT")
}

func testFeed() string {
	var lines []string
	for _, ev := range [][]string{
		vevent("UID:standup", "SUMMARY:Standup", "DTSTART:20251124T090000Z", "DTEND:20251124T091500Z"),
		vevent("UID:retro", "SUMMARY:Retro", "STATUS:CANCELLED", "DTSTART:20251124T100000Z", "DTEND:20251124T110000Z"),
		vevent("UID:one-on-one", "SUMMARY:Canceled: 1:1", "DTSTART:20251124T103000Z", "DTEND:20251124T110000Z"),
		vevent("UID:holiday", "SUMMARY:Holiday", "DTSTART;VALUE=DATE:20251124", "DTEND;VALUE=DATE:20251125"),
		vevent("UID:tomorrow", "SUMMARY:Tomorrow", "DTSTART:20251125T090000Z", "DTEND:20251125T100000Z"),
		vevent("UID:untimed", "SUMMARY:No times"),
		vevent("UID:review", "SUMMARY:Design Review", "DTSTART:20251124T140000Z", "DURATION:PT45M"),
		vevent("UID:planning", "SUMMARY:Planning",
			"DTSTART;TZID=Eastern Standard Time:20251124T060000",
			"DTEND;TZID=Eastern Standard Time:20251124T063000"),
		vevent("UID:standup", "SUMMARY:Standup", "DTSTART:20251124T090000Z", "DTEND:20251124T091500Z"),
	} {
		lines = append(lines, ev...)
	}
	return icsBody(lines...)
}

type fetchRecorder struct {
	sources []string
	counts  []int
	errs    []error
}

func (r *fetchRecorder) CalendarFetched(source string, events int, err error) {
	r.sources = append(r.sources, source)
	r.counts = append(r.counts, events)
	r.errs = append(r.errs, err)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchEventsKeepsTodaysTimedEvents(t *testing.T) {
	srv := serve(t, http.StatusOK, testFeed())
	rec := &fetchRecorder{}
	f := NewFetcher(srv.Client(), rec, nil)

	events, err := f.FetchEvents(context.Background(), models.ICalSource{ID: "work", Name: "Work", URL: srv.URL}, fetchNow)
	require.NoError(t, err)

	titles := []string{}
	for _, e := range events {
		titles = append(titles, e.Title)
		assert.Equal(t, "work", e.Source)
	}
	assert.Equal(t, []string{"Standup", "Design Review", "Planning"}, titles)

	assert.Equal(t, time.Date(2025, time.November, 24, 14, 45, 0, 0, time.UTC), events[1].End)
	assert.Equal(t, 45, events[1].DurationMinutes)
	assert.Equal(t, time.Date(2025, time.November, 24, 11, 0, 0, 0, time.UTC), events[2].Start)

	assert.Equal(t, []string{"work"}, rec.sources)
	assert.Equal(t, []int{3}, rec.counts)
	assert.NoError(t, rec.errs[0])
}

func TestFetchEventsRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"html", http.StatusOK, "<!DOCTYPE html><html>login</html>", "received HTML"},
		{"garbage", http.StatusOK, "hello", "expected BEGIN:VCALENDAR"},
		{"status", http.StatusNotFound, "", "unexpected HTTP status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			rec := &fetchRecorder{}
			_, err := NewFetcher(srv.Client(), rec, nil).
				FetchEvents(context.Background(), models.ICalSource{ID: "x", Name: "X", URL: srv.URL}, fetchNow)
			assert.ErrorContains(t, err, tt.want)
			require.Len(t, rec.errs, 1)
			assert.Error(t, rec.errs[0])
		})
	}
}

func TestFetchAllSkipsFailingSources(t *testing.T) {
	good := serve(t, http.StatusOK, testFeed())
	bad := serve(t, http.StatusInternalServerError, "")

	events := NewFetcher(nil, nil, nil).FetchAll(context.Background(), []models.ICalSource{
		{ID: "bad", Name: "Broken", URL: bad.URL},
		{ID: "incomplete", Name: "", URL: good.URL},
		{ID: "work", Name: "Work", URL: good.URL},
	}, fetchNow)

	require.Len(t, events, 3)
	assert.Equal(t, "Standup", events[0].Title)
}

func TestFetchEventsHonoursContext(t *testing.T) {
	srv := serve(t, http.StatusOK, testFeed())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(nil, nil, nil).FetchEvents(ctx, models.ICalSource{ID: "w", Name: "W", URL: srv.URL}, fetchNow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsCancelledTitle(t *testing.T) {
	assert.True(t, isCancelledTitle("Canceled: Sync"))
	assert.True(t, isCancelledTitle("[CANCELLED] Sync"))
	assert.False(t, isCancelledTitle("Sync about cancellations"))
}
