package calendar

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/schedule"
)

func TestExportRoundTrip(t *testing.T) {
	day := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)
	entries := []schedule.Entry{
		{Time: "6:30 AM", Activity: "Wake up", Domain: plan.DomainSleep},
		{Time: "1:00 PM", Activity: "Lunch", Domain: plan.DomainNutrition},
		{Time: "5:30 PM", Activity: "Workout", Domain: plan.DomainFitness},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, day, entries, 45*time.Minute))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, productID)
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "CATEGORIES:NUTRITION")

	start, end := DayWindow(day)
	events, err := decode(&buf, start, end)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "[sleep] Wake up", events[0].Summary)
	assert.True(t, events[0].StartTime.Equal(time.Date(2026, 4, 6, 6, 30, 0, 0, time.UTC)))
	assert.Equal(t, 45*time.Minute, events[1].EndTime.Sub(events[1].StartTime))
	assert.Equal(t, "[fitness] Workout", events[2].Summary)
}

func TestEventUIDStable(t *testing.T) {
	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	e := schedule.Entry{Time: "1:00 PM", Activity: "Lunch"}

	assert.Equal(t, EventUID(day, e), EventUID(day.Add(5*time.Hour), e))
	assert.NotEqual(t, EventUID(day, e), EventUID(day.AddDate(0, 0, 1), e))
	assert.NotEqual(t, EventUID(day, e), EventUID(day, schedule.Entry{Time: "1:00 PM", Activity: "Dinner"}))
}

const busyICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:1\r\n" +
	"DTSTAMP:20260406T000000Z\r\n" +
	"DTSTART:20260406T090000Z\r\n" +
	"DTEND:20260406T100000Z\r\n" +
	"SUMMARY:Standup\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:2\r\n" +
	"DTSTAMP:20260406T000000Z\r\n" +
	"DTSTART:20260407T090000Z\r\n" +
	"DTEND:20260407T100000Z\r\n" +
	"SUMMARY:Tomorrow\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestFetchFileFiltersWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "work.ics")
	require.NoError(t, os.WriteFile(path, []byte(busyICS), 0644))

	start, end := DayWindow(time.Date(2026, 4, 6, 15, 0, 0, 0, time.UTC))
	events, err := Fetch(t.Context(), path, start, end)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Summary)

	busy := FormatBusy([]Event{{
		Summary:   "Standup",
		StartTime: time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 4, 6, 10, 30, 0, 0, time.UTC),
	}})
	assert.Equal(t, []string{"9:00 AM-10:30 AM Standup"}, busy)
}

func TestFetchMissingFile(t *testing.T) {
	_, err := Fetch(t.Context(), filepath.Join(t.TempDir(), "nope.ics"), time.Now(), time.Now())
	assert.Error(t, err)
}
