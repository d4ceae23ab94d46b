package wellness

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Scenario names a canned user situation used to demo plan generation.
type Scenario string

const (
	ScenarioOptimal       Scenario = "optimal"
	ScenarioSleepDeprived Scenario = "sleep_deprived"
	ScenarioBusy          Scenario = "busy"
	ScenarioLowEnergy     Scenario = "low_energy"
)

var Scenarios = []Scenario{ScenarioOptimal, ScenarioSleepDeprived, ScenarioBusy, ScenarioLowEnergy}

type scenarioProfile struct {
	fitnessLevel string
	goals        map[string]any
	constraints  map[string]any
}

var scenarioProfiles = map[Scenario]scenarioProfile{
	ScenarioOptimal: {
		fitnessLevel: "advanced",
		goals:        map[string]any{"fitness": "Hypertrophy", "nutrition": "Surplus", "sleep": "Performance", "mental": "Focus"},
		constraints:  map[string]any{"time_available": "120 minutes", "current_energy": "high", "current_mood": "great", "current_sleep": 8},
	},
	ScenarioSleepDeprived: {
		fitnessLevel: "intermediate",
		goals:        map[string]any{"fitness": "Maintenance", "nutrition": "Recovery", "sleep": "Restoration", "mental": "Calm"},
		constraints:  map[string]any{"time_available": "45 minutes", "current_energy": "low", "current_mood": "tired", "current_sleep": 4},
	},
	ScenarioBusy: {
		fitnessLevel: "intermediate",
		goals:        map[string]any{"fitness": "Efficiency", "nutrition": "Convenience", "sleep": "Power Nap", "mental": "De-stress"},
		constraints:  map[string]any{"time_available": "20 minutes", "current_energy": "medium", "current_mood": "stressed", "current_sleep": 6},
	},
	ScenarioLowEnergy: {
		fitnessLevel: "beginner",
		goals:        map[string]any{"fitness": "Movement", "nutrition": "Energy", "sleep": "Catch-up", "mental": "Resilience"},
		constraints:  map[string]any{"time_available": "30 minutes", "current_energy": "low", "current_mood": "low", "current_sleep": 7},
	},
}

func ParseScenario(s string) (Scenario, error) {
	sc := Scenario(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := scenarioProfiles[sc]; !ok {
		return "", fmt.Errorf("unknown scenario %q (want one of optimal, sleep_deprived, busy, low_energy)", s)
	}
	return sc, nil
}

func demoProfile(now time.Time) GenerateRequest {
	return GenerateRequest{
		UserID:       fmt.Sprintf("sim_%d", now.UnixMilli()),
		Name:         "Demo User",
		Age:          30,
		Weight:       70,
		Height:       175,
		FitnessLevel: "intermediate",
		Goals:        map[string]any{"fitness": "General Health", "nutrition": "Balance"},
		Constraints:  map[string]any{},
	}
}

// ScenarioRequest overlays a scenario onto the demo profile. Goals and
// constraints are merged key by key; the scenario wins on conflicts.
func ScenarioRequest(sc Scenario, now time.Time) (GenerateRequest, error) {
	sp, ok := scenarioProfiles[sc]
	if !ok {
		return GenerateRequest{}, fmt.Errorf("unknown scenario %q", sc)
	}
	req := demoProfile(now)
	req.FitnessLevel = sp.fitnessLevel
	maps.Copy(req.Goals, sp.goals)
	maps.Copy(req.Constraints, sp.constraints)
	return req, nil
}
