package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/wellsync/internal/plan"
	"github.com/christopherklint97/wellsync/internal/progress"
	"github.com/christopherklint97/wellsync/internal/schedule"
	"github.com/christopherklint97/wellsync/internal/store"
)

var testEntries = []schedule.Entry{
	{Time: "6:30 AM", Activity: "Wake up", Domain: plan.DomainSleep},
	{Time: "7:00 AM", Activity: "Breakfast", Domain: plan.DomainNutrition},
	{Time: "5:30 PM", Activity: "Workout", Domain: plan.DomainFitness},
}

func TestPickEntry(t *testing.T) {
	e, err := pickEntry(testEntries, "2")
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", e.Activity)

	e, err = pickEntry(testEntries, "5:30 PM-Workout")
	require.NoError(t, err)
	assert.Equal(t, plan.DomainFitness, e.Domain)

	_, err = pickEntry(testEntries, "0")
	assert.Error(t, err)
	_, err = pickEntry(testEntries, "4")
	assert.Error(t, err)
	_, err = pickEntry(testEntries, "Lunch")
	assert.Error(t, err)
}

func TestCountDone(t *testing.T) {
	done := progress.NewSet("6:30 AM-Wake up", "stale-id")
	assert.Equal(t, 1, countDone(testEntries, done.Has))
}

func TestLocalCompleted(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "wellsync.db"))
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.Local)
	assert.Zero(t, localCompleted(db, now).Len())

	tracker := progress.NewTracker(db, nil, nil)
	defer tracker.Close()
	tracker.SetClock(func() time.Time { return now })
	tracker.Load(t.Context(), "u1")
	tracker.Toggle("7:00 AM-Breakfast")

	assert.True(t, localCompleted(db, now).Has("7:00 AM-Breakfast"))
	assert.Zero(t, localCompleted(db, now.AddDate(0, 0, 1)).Len(), "yesterday's entries are not done today")

	require.NoError(t, db.SetState(progress.StorageKey, "not json"))
	assert.Zero(t, localCompleted(db, now).Len())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "***", mask("abc"))
	assert.Equal(t, "*****2345", mask("sk-012345"))
}
