package profiles

import (
	"time"

	"github.com/christopherklint97/wellsync/internal/plan"
)

// Profile is a user's row in the profiles table.
type Profile struct {
	ID             string         `json:"id"`
	FullName       string         `json:"full_name"`
	Age            int            `json:"age,omitempty"`
	Weight         float64        `json:"weight,omitempty"`
	Height         float64        `json:"height,omitempty"`
	FitnessLevel   string         `json:"fitness_level,omitempty"`
	Goals          map[string]any `json:"goals,omitempty"`
	Constraints    map[string]any `json:"constraints,omitempty"`
	CurrentPlan    plan.Document  `json:"current_plan,omitempty"`
	PlanAcceptedAt *time.Time     `json:"plan_accepted_at,omitempty"`
	Streak         int            `json:"streak"`
	Points         int            `json:"points"`
	Achievements   []string       `json:"achievements"`
	CompletedTasks []string       `json:"completed_tasks,omitempty"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}

// HasPlan reports whether a non-null plan document is stored.
func (p *Profile) HasPlan() bool {
	return p != nil && !p.CurrentPlan.Empty()
}

// AcceptedOn reports whether the current plan was accepted on the same
// calendar day as day, in day's location.
func (p *Profile) AcceptedOn(day time.Time) bool {
	if p == nil || p.PlanAcceptedAt == nil {
		return false
	}
	a := p.PlanAcceptedAt.In(day.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FitnessLevelOrDefault returns the stored level, or intermediate.
func (p *Profile) FitnessLevelOrDefault() string {
	if p.FitnessLevel == "" {
		return "intermediate"
	}
	return p.FitnessLevel
}
