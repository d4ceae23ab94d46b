package schedule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/christopherklint97/wellsync/internal/plan"
)

// WorkoutSlot is where the day's workout lands on the agenda. The plan
// service does not send a session time, so the slot is fixed.
const WorkoutSlot = "5:30 PM"

const (
	wakeLabel     = "Wake up"
	windDownLabel = "Wind Down"
	workoutLabel  = "Workout"
)

// Entry is one line of the daily agenda.
type Entry struct {
	Time     string      `json:"time"`
	Activity string      `json:"activity"`
	Domain   plan.Domain `json:"category"`
}

// ID identifies the entry in the completed-task set.
func (e Entry) ID() string {
	return e.Time + "-" + e.Activity
}

// Minutes is the entry's position in the day, in minutes since midnight.
func (e Entry) Minutes() int {
	return ParseClock(e.Time)
}

func (e Entry) String() string {
	return e.Time + " " + e.Activity
}

// Build merges the timed events of all four domains into one agenda
// ordered by time of day. Entries at the same minute keep their insertion
// order; entries with unreadable times sort to the start of the day.
func Build(fitness plan.Fitness, nutrition plan.Nutrition, sleep plan.Sleep, mental plan.Mental) []Entry {
	var entries []Entry

	if sleep.WakeTime != "" {
		entries = append(entries, Entry{Time: sleep.WakeTime, Activity: wakeLabel, Domain: plan.DomainSleep})
	}
	for _, m := range nutrition.Meals {
		if m.Time != "" && m.Name != "" {
			entries = append(entries, Entry{Time: m.Time, Activity: m.Name, Domain: plan.DomainNutrition})
		}
	}

	workout := workoutLabel
	if len(fitness.Sessions) > 0 && fitness.Sessions[0].Type != "" {
		workout = fitness.Sessions[0].Type
	}
	entries = append(entries, Entry{Time: WorkoutSlot, Activity: workout, Domain: plan.DomainFitness})

	for _, p := range mental.Practices {
		if p.Time != "" && p.Activity != "" {
			entries = append(entries, Entry{Time: p.Time, Activity: p.Activity, Domain: plan.DomainMental})
		}
	}
	if sleep.Bedtime != "" {
		entries = append(entries, Entry{Time: sleep.Bedtime, Activity: windDownLabel, Domain: plan.DomainSleep})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Minutes() - b.Minutes()
	})
	return entries
}

// FromPlan builds the agenda for an already normalized plan.
func FromPlan(p plan.Plan) []Entry {
	return Build(p.Fitness, p.Nutrition, p.Sleep, p.Mental)
}

// IDs returns the completion identifiers of entries in agenda order.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID()
	}
	return ids
}

// Format renders the agenda one entry per line.
func Format(entries []Entry) string {
	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%2d  %8s  %-10s %s\n", i+1, e.Time, e.Domain, e.Activity)
	}
	return sb.String()
}

// Next returns the first entry at or after the given minute of the day.
func Next(entries []Entry, minute int) (Entry, bool) {
	for _, e := range entries {
		if e.Minutes() >= minute {
			return e, true
		}
	}
	return Entry{}, false
}
