package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestReminderTime(t *testing.T) {
	now := time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)
	lead := 5 * time.Minute

	at, ok := reminderTime(now, schedule.Entry{Time: "1:00 PM"}, lead)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 4, 6, 12, 55, 0, 0, time.UTC), at)

	at, ok = reminderTime(now, schedule.Entry{Time: "12:03 PM"}, lead)
	require.True(t, ok)
	assert.Equal(t, now, at, "inside the lead window reminds immediately")

	_, ok = reminderTime(now, schedule.Entry{Time: "11:00 AM"}, lead)
	assert.False(t, ok)
}

func TestNextMidnight(t *testing.T) {
	now := time.Date(2026, 4, 6, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 7, 0, 1, 0, 0, time.UTC), nextMidnight(now))
}

func TestClockOf(t *testing.T) {
	assert.Equal(t, "1:05 PM", clockOf(time.Date(2026, 4, 6, 13, 5, 0, 0, time.UTC)))
	assert.Equal(t, "12:00 AM", clockOf(time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)))
}

type sent struct{ title, msg string }

func newTestScheduler(t *testing.T, entries []schedule.Entry, done DoneFunc) (*Scheduler, chan sent) {
	t.Helper()
	ch := make(chan sent, 8)
	now := time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)
	return &Scheduler{
		agenda: func(context.Context) ([]schedule.Entry, error) { return entries, nil },
		done:   done,
		notify: func(title, msg string) error {
			ch <- sent{title, msg}
			return nil
		},
		lead:    5 * time.Minute,
		logger:  discardLogger(),
		now:     func() time.Time { return now },
		pidFile: filepath.Join(t.TempDir(), "wellsync.pid"),
		out:     io.Discard,
	}, ch
}

func TestRunRemindsAndStops(t *testing.T) {
	entries := []schedule.Entry{
		{Time: "9:00 AM", Activity: "Breakfast", Domain: plan.DomainNutrition},
		{Time: "10:02 AM", Activity: "Box breathing", Domain: plan.DomainMental},
	}
	s, ch := newTestScheduler(t, entries, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	select {
	case got := <-ch:
		assert.Equal(t, "wellsync", got.title)
		assert.Equal(t, "Up next at 10:02 AM: Box breathing (mental)", got.msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no reminder sent")
	}

	pid, err := readPIDFile(s.pidFile)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	cancel()
	require.NoError(t, <-errCh)
	assert.Empty(t, ch, "past entries are not reminded")

	_, err = os.Stat(s.pidFile)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunSkipsCompletedEntries(t *testing.T) {
	entries := []schedule.Entry{
		{Time: "10:01 AM", Activity: "Stretch"},
		{Time: "10:03 AM", Activity: "Water"},
	}
	s, ch := newTestScheduler(t, entries, func(id string) bool { return id == "10:01 AM-Stretch" })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	select {
	case got := <-ch:
		assert.Equal(t, "Up next at 10:03 AM: Water", got.msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no reminder sent")
	}
	cancel()
	require.NoError(t, <-errCh)
}

func TestReadPIDFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := readPIDFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.pid")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	_, err = readPIDFile(bad)
	assert.Error(t, err)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
