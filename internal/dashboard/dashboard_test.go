package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/profiles"
)

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   State
	}{
		{"generate then show", []Event{Generate, Generated}, Showing},
		{"generation fails", []Event{Generate, Failed}, Idle},
		{"accept stores", []Event{Generate, Generated, Accept}, Stored},
		{"skip stores", []Event{Generate, Generated, Skip}, Stored},
		{"modify returns to idle", []Event{Generate, Generated, Modify}, Idle},
		{"modify then regenerate", []Event{Generate, Generated, Modify, Generate}, Running},
		{"restore fresh plan", []Event{Restore(false)}, Showing},
		{"restore accepted plan", []Event{Restore(true)}, Stored},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			for _, ev := range tt.events {
				_, err := m.Fire(ev)
				require.NoError(t, err, "event %s", ev)
			}
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestMachineRejectsInvalidEvents(t *testing.T) {
	tests := []struct {
		name  string
		setup []Event
		bad   Event
	}{
		{"accept while idle", nil, Accept},
		{"skip while running", []Event{Generate}, Skip},
		{"generate while running", []Event{Generate}, Generate},
		{"generate while showing", []Event{Generate, Generated}, Generate},
		{"modify after stored", []Event{Restore(true)}, Modify},
		{"restore while showing", []Event{Restore(false)}, Restore(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			for _, ev := range tt.setup {
				_, err := m.Fire(ev)
				require.NoError(t, err)
			}
			before := m.State()

			assert.False(t, m.Can(tt.bad))
			got, err := m.Fire(tt.bad)
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, before, got)
			assert.Equal(t, before, m.State())
		})
	}
}

func TestStoredOnlyFromShowing(t *testing.T) {
	for _, from := range []State{Idle, Running, Stored} {
		for _, ev := range []Event{Accept, Skip} {
			_, ok := transitions[transition{from, ev}]
			assert.False(t, ok, "%s should not be allowed in %s", ev, from)
		}
	}
}

func TestFeedbackFor(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	fb, ok := FeedbackFor(Accept, now)
	require.True(t, ok)
	assert.True(t, fb.Accepted)
	assert.Equal(t, 5, fb.Rating)
	assert.Equal(t, "User accepted", fb.Comments)
	assert.Equal(t, now, fb.Timestamp)

	fb, ok = FeedbackFor(Modify, now)
	require.True(t, ok)
	assert.False(t, fb.Accepted)
	assert.Equal(t, 3, fb.Rating)
	assert.Equal(t, "User modified", fb.Comments)

	fb, ok = FeedbackFor(Skip, now)
	require.True(t, ok)
	assert.Equal(t, 0, fb.Rating)
	assert.Equal(t, "User skipped", fb.Comments)

	_, ok = FeedbackFor(Generate, now)
	assert.False(t, ok)
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 1, 1, h, 30, 0, 0, time.UTC) }
	assert.Equal(t, "Good morning", Greeting(at(0)))
	assert.Equal(t, "Good morning", Greeting(at(11)))
	assert.Equal(t, "Good afternoon", Greeting(at(12)))
	assert.Equal(t, "Good afternoon", Greeting(at(16)))
	assert.Equal(t, "Good evening", Greeting(at(17)))
	assert.Equal(t, "Good evening", Greeting(at(23)))
}

func TestProgressWithPlan(t *testing.T) {
	p := &profiles.Profile{CurrentPlan: plan.Document(`{"unified_plan":{}}`)}
	s := Progress(p)

	assert.Equal(t, 1, s.Streak)
	assert.Equal(t, 100, s.Points)
	assert.True(t, s.NeedsUpdate)
	assert.Equal(t, []string{"first_plan"}, s.Earned)
	assert.Equal(t, 1, s.UnlockedCount())
	assert.True(t, s.Achievements[0].Unlocked)
}

func TestProgressWithoutPlan(t *testing.T) {
	s := Progress(&profiles.Profile{Streak: 0, Points: 40})
	assert.Equal(t, 0, s.Streak)
	assert.Equal(t, 40, s.Points)
	assert.False(t, s.NeedsUpdate)
	assert.Zero(t, s.UnlockedCount())
	assert.NotNil(t, s.Earned)
}

func TestProgressStreakAchievements(t *testing.T) {
	p := &profiles.Profile{
		CurrentPlan:  plan.Document(`{"unified_plan":{}}`),
		Streak:       31,
		Points:       1200,
		Achievements: []string{"sleep_champion", "legacy_badge"},
	}
	s := Progress(p)

	assert.False(t, s.NeedsUpdate)
	assert.Equal(t, []string{"sleep_champion", "legacy_badge", "first_plan", "week_streak", "month_streak"}, s.Earned)
	assert.Equal(t, 4, s.UnlockedCount())
	assert.Equal(t, 1500, s.NextLevel())
	assert.InDelta(t, 40.0, s.LevelProgress(), 0.001)

	fields := s.UpdateFields()
	assert.Equal(t, 31, fields["streak"])
	assert.Equal(t, s.Earned, fields["achievements"])
}

func TestProgressNilProfile(t *testing.T) {
	s := Progress(nil)
	assert.Zero(t, s.Streak)
	assert.Len(t, s.Achievements, len(Catalog))
}

func TestStreakFrom(t *testing.T) {
	today := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return today.AddDate(0, 0, -offset) }

	assert.Equal(t, 3, StreakFrom([]time.Time{day(0), day(1), day(2), day(4)}, today))
	assert.Equal(t, 2, StreakFrom([]time.Time{day(1), day(2)}, today), "today not finished yet")
	assert.Equal(t, 0, StreakFrom([]time.Time{day(2)}, today))
	assert.Equal(t, 0, StreakFrom(nil, today))
}
