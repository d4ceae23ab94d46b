package plan

import (
	"regexp"
	"strconv"
	"strings"
)

type Exercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	// Reps is either a count ("12") or a timed hold ("30s").
	Reps string `json:"reps"`
}

type Session struct {
	Day       string     `json:"day"`
	Type      string     `json:"type"`
	Duration  int        `json:"duration"`
	Exercises []Exercise `json:"exercises"`
}

type Fitness struct {
	Sessions         []Session `json:"sessions"`
	Intensity        string    `json:"intensity"`
	Focus            string    `json:"focus"`
	WeeklyVolume     string    `json:"weekly_volume"`
	Progression      string    `json:"progression"`
	OvertrainingRisk string    `json:"overtraining_risk"`
	EnergyDemand     string    `json:"energy_demand"`
	Confidence       float64   `json:"confidence"`
}

// StepGoal maps the workout intensity to a daily step target.
func (f Fitness) StepGoal() int {
	switch strings.ToLower(f.Intensity) {
	case "high":
		return 10000
	case "light":
		return 6000
	}
	return 8000
}

type Meal struct {
	Name     string   `json:"meal"`
	Time     string   `json:"time"`
	Items    []string `json:"items"`
	Calories int      `json:"calories"`
	Macros   string   `json:"macros"`
	Cost     string   `json:"cost"`
}

type MacroSplit struct {
	Protein string `json:"protein"`
	Carbs   string `json:"carbs"`
	Fats    string `json:"fats"`
}

type Nutrition struct {
	Meals         []Meal     `json:"meals"`
	DailyCalories int        `json:"daily_calories"`
	Macros        MacroSplit `json:"macro_split"`
	Hydration     string     `json:"hydration"`
	Focus         string     `json:"focus"`
	Budget        string     `json:"budget_estimate"`
	Confidence    float64    `json:"confidence"`
}

var firstInt = regexp.MustCompile(`\d+`)

// HydrationGlasses pulls the first number out of the hydration text.
func (n Nutrition) HydrationGlasses() int {
	if m := firstInt.FindString(n.Hydration); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			return v
		}
	}
	return 8
}

// MealCalories sums the calories of every meal.
func (n Nutrition) MealCalories() int {
	total := 0
	for _, m := range n.Meals {
		total += m.Calories
	}
	return total
}

type Sleep struct {
	TargetHours    float64  `json:"target_hours"`
	Bedtime        string   `json:"bedtime"`
	WakeTime       string   `json:"wake_time"`
	Hygiene        []string `json:"sleep_hygiene"`
	WindDown       []string `json:"wind_down_routine"`
	Focus          string   `json:"focus"`
	RecoveryStatus string   `json:"recovery_status"`
	QualityTarget  int      `json:"sleep_quality_target"`
	Confidence     float64  `json:"confidence"`
}

type Practice struct {
	Activity string `json:"activity"`
	Duration string `json:"duration"`
	Time     string `json:"time"`
}

type Mental struct {
	Practices        []Practice `json:"daily_practices"`
	StressManagement []string   `json:"stress_management"`
	MoodTracking     string     `json:"mood_tracking"`
	SocialConnection string     `json:"social_connection"`
	MotivationLevel  string     `json:"motivation_level"`
	Focus            string     `json:"focus"`
	Confidence       float64    `json:"confidence"`
}

// DailyMinutes totals the leading number of every practice duration.
func (m Mental) DailyMinutes() int {
	total := 0
	for _, p := range m.Practices {
		if s := firstInt.FindString(p.Duration); s != "" {
			v, _ := strconv.Atoi(s)
			total += v
		}
	}
	return total
}

// Plan is the normalized view of all four domains.
type Plan struct {
	Fitness   Fitness   `json:"fitness"`
	Nutrition Nutrition `json:"nutrition"`
	Sleep     Sleep     `json:"sleep"`
	Mental    Mental    `json:"mental"`
}
