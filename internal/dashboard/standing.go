package dashboard

import (
	"slices"
	"time"

	"github.com/christopherklint97/wellsync/internal/profiles"
)

type Achievement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Points   int    `json:"points"`
	Unlocked bool   `json:"unlocked"`
}

// Catalog lists every achievement in display order.
var Catalog = []Achievement{
	{ID: "first_plan", Name: "First Plan", Icon: "🎯", Points: 100},
	{ID: "week_streak", Name: "7 Day Streak", Icon: "🔥", Points: 200},
	{ID: "month_streak", Name: "30 Day Streak", Icon: "⭐", Points: 500},
	{ID: "workout_warrior", Name: "Workout Warrior", Icon: "💪", Points: 150},
	{ID: "nutrition_ninja", Name: "Nutrition Ninja", Icon: "🥗", Points: 150},
	{ID: "sleep_champion", Name: "Sleep Champion", Icon: "😴", Points: 150},
}

const (
	basePoints = 100
	levelSize  = 500
)

// Standing is a user's streak, points and achievements as displayed.
type Standing struct {
	Streak       int
	Points       int
	Achievements []Achievement
	// Earned is the stored achievement list plus anything unlocked
	// automatically, in first-seen order.
	Earned []string
	// NeedsUpdate is set when the derived streak or points differ from
	// the stored profile and should be written back.
	NeedsUpdate bool
}

// Progress derives the user's standing from their profile. Having a plan
// guarantees a streak of one and the base points, and unlocks first_plan.
func Progress(p *profiles.Profile) Standing {
	var streak, points int
	var earned []string
	if p != nil {
		streak, points = p.Streak, p.Points
		earned = slices.Clone(p.Achievements)
	}
	savedStreak, savedPoints := streak, points

	var auto []string
	if p.HasPlan() {
		streak = max(streak, 1)
		points = max(points, basePoints)
		auto = append(auto, "first_plan")
	}
	if streak >= 7 {
		auto = append(auto, "week_streak")
	}
	if streak >= 30 {
		auto = append(auto, "month_streak")
	}
	for _, id := range auto {
		if !slices.Contains(earned, id) {
			earned = append(earned, id)
		}
	}
	if earned == nil {
		earned = []string{}
	}

	achievements := make([]Achievement, len(Catalog))
	for i, a := range Catalog {
		a.Unlocked = slices.Contains(earned, a.ID)
		achievements[i] = a
	}

	return Standing{
		Streak:       streak,
		Points:       points,
		Achievements: achievements,
		Earned:       earned,
		NeedsUpdate:  streak != savedStreak || points != savedPoints,
	}
}

// UpdateFields returns the profile columns to write back.
func (s Standing) UpdateFields() map[string]any {
	return map[string]any{
		"streak":       s.Streak,
		"points":       s.Points,
		"achievements": s.Earned,
	}
}

func (s Standing) UnlockedCount() int {
	n := 0
	for _, a := range s.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// NextLevel is the next multiple of 500 points at or above the current
// total.
func (s Standing) NextLevel() int {
	return (s.Points + levelSize - 1) / levelSize * levelSize
}

// LevelProgress is the percentage of the way through the current level.
func (s Standing) LevelProgress() float64 {
	return float64(s.Points%levelSize) / levelSize * 100
}

// StreakFrom counts consecutive completed days ending today, or ending
// yesterday when today is not complete yet.
func StreakFrom(completed []time.Time, today time.Time) int {
	days := make(map[string]bool, len(completed))
	for _, d := range completed {
		days[d.In(today.Location()).Format(time.DateOnly)] = true
	}

	day := today
	if !days[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(time.DateOnly)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
