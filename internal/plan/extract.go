package plan

import "github.com/tidwall/gjson"

// ExtractFitness normalizes the fitness section of doc.
func ExtractFitness(doc Document) Fitness {
	obj := section(doc, DomainFitness)

	var sessions []Session
	for _, s := range objects(obj, "sessions", "workout_sessions", "workouts") {
		sessions = append(sessions, Session{
			Day:       text(s, "", "day"),
			Type:      text(s, defaultSessionType, "type", "name"),
			Duration:  integer(s, defaultSessionDuration, "duration", "duration_minutes"),
			Exercises: exercises(s),
		})
	}
	if len(sessions) == 0 {
		sessions = defaultSessions()
	}

	return Fitness{
		Sessions:         sessions,
		Intensity:        text(obj, defaultIntensity, "intensity"),
		Focus:            text(obj, defaultFitnessFocus, "focus"),
		WeeklyVolume:     text(obj, defaultWeeklyVolume, "weekly_volume"),
		Progression:      text(obj, "", "progression"),
		OvertrainingRisk: text(obj, defaultOvertrainingRisk, "overtraining_risk"),
		EnergyDemand:     text(obj, defaultEnergyDemand, "energy_demand"),
		Confidence:       confidence(obj, defaultFitnessConf),
	}
}

func exercises(session gjson.Result) []Exercise {
	out := []Exercise{}
	for _, e := range objects(session, "exercises") {
		out = append(out, Exercise{
			Name: text(e, defaultExerciseName, "name", "exercise"),
			Sets: integer(e, defaultExerciseSets, "sets"),
			Reps: text(e, defaultExerciseReps, "reps", "duration"),
		})
	}
	return out
}

// ExtractNutrition normalizes the nutrition section of doc.
func ExtractNutrition(doc Document) Nutrition {
	obj := section(doc, DomainNutrition)

	var meals []Meal
	for _, m := range objects(obj, "meals", "meal_plan") {
		meals = append(meals, Meal{
			Name:     text(m, defaultMealName, "meal", "name"),
			Time:     text(m, "", "time"),
			Items:    stringList(m, "items", "foods"),
			Calories: integer(m, 0, "calories"),
			Macros:   text(m, "", "macros"),
			Cost:     text(m, "", "cost"),
		})
	}
	if len(meals) == 0 {
		meals = defaultMeals()
	}

	split := obj.Get("macro_split")
	if !split.IsObject() {
		split = emptyObject
	}

	return Nutrition{
		Meals:         meals,
		DailyCalories: integer(obj, defaultDailyCalories, "daily_calories", "calories"),
		Macros: MacroSplit{
			Protein: text(split, defaultProteinShare, "protein"),
			Carbs:   text(split, defaultCarbsShare, "carbs"),
			Fats:    text(split, defaultFatsShare, "fats", "fat"),
		},
		Hydration:  text(obj, defaultHydration, "hydration"),
		Focus:      text(obj, defaultNutritionFocus, "focus"),
		Budget:     text(obj, defaultBudget, "budget_estimate", "budget"),
		Confidence: confidence(obj, defaultNutritionConf),
	}
}

// ExtractSleep normalizes the sleep section of doc.
func ExtractSleep(doc Document) Sleep {
	obj := section(doc, DomainSleep)
	return Sleep{
		TargetHours:    number(obj, defaultTargetHours, "target_hours"),
		Bedtime:        text(obj, defaultBedtime, "bedtime"),
		WakeTime:       text(obj, defaultWakeTime, "wake_time"),
		Hygiene:        stringList(obj, "sleep_hygiene", "hygiene_tips"),
		WindDown:       stringList(obj, "wind_down_routine", "wind_down"),
		Focus:          text(obj, defaultSleepFocus, "focus"),
		RecoveryStatus: text(obj, defaultRecoveryStatus, "recovery_status"),
		QualityTarget:  integer(obj, defaultQualityTarget, "sleep_quality_target"),
		Confidence:     confidence(obj, defaultSleepConf),
	}
}

// ExtractMental normalizes the mental wellness section of doc.
func ExtractMental(doc Document) Mental {
	obj := section(doc, DomainMental)

	var practices []Practice
	for _, p := range objects(obj, "daily_practices", "practices") {
		practices = append(practices, Practice{
			Activity: text(p, defaultPracticeName, "activity", "name"),
			Duration: text(p, "", "duration"),
			Time:     text(p, "", "time"),
		})
	}
	if len(practices) == 0 {
		practices = defaultPractices()
	}

	return Mental{
		Practices:        practices,
		StressManagement: stringList(obj, "stress_management", "stress_techniques"),
		MoodTracking:     text(obj, defaultMoodTracking, "mood_tracking"),
		SocialConnection: text(obj, "", "social_connection"),
		MotivationLevel:  text(obj, defaultMotivationLevel, "motivation_level"),
		Focus:            text(obj, defaultMentalFocus, "focus"),
		Confidence:       confidence(obj, defaultMentalConf),
	}
}

// Extract returns the normalized record for a single domain. Unknown
// domains yield nil.
func Extract(doc Document, d Domain) any {
	switch d {
	case DomainFitness:
		return ExtractFitness(doc)
	case DomainNutrition:
		return ExtractNutrition(doc)
	case DomainSleep:
		return ExtractSleep(doc)
	case DomainMental:
		return ExtractMental(doc)
	}
	return nil
}

// ExtractAll normalizes every domain of doc.
func ExtractAll(doc Document) Plan {
	return Plan{
		Fitness:   ExtractFitness(doc),
		Nutrition: ExtractNutrition(doc),
		Sleep:     ExtractSleep(doc),
		Mental:    ExtractMental(doc),
	}
}

var summaryPaths = []string{
	"plan.summary",
	"unified_plan.summary",
	"result.unified_plan.summary",
	"plan.unified_plan.summary",
	"summary",
}

// Summary returns the coordinator's one-line description of the day.
func Summary(doc Document) string {
	root := doc.root()
	for _, p := range summaryPaths {
		if v := root.Get(p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return defaultSummary
}
