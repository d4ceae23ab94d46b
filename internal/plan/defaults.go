package plan

const (
	defaultIntensity        = "moderate"
	defaultFitnessFocus     = "balanced"
	defaultWeeklyVolume     = "120 min"
	defaultOvertrainingRisk = "low"
	defaultEnergyDemand     = "medium"
	defaultFitnessConf      = 0.88

	defaultSessionType     = "Workout"
	defaultSessionDuration = 45
	defaultExerciseName    = "Exercise"
	defaultExerciseSets    = 3
	defaultExerciseReps    = "10"

	defaultDailyCalories  = 2000
	defaultHydration      = "8 glasses"
	defaultNutritionFocus = "balanced_nutrition"
	defaultBudget         = "₹120-150/day"
	defaultNutritionConf  = 0.92
	defaultMealName       = "Meal"
	defaultProteinShare   = "30%"
	defaultCarbsShare     = "45%"
	defaultFatsShare      = "25%"

	defaultTargetHours    = 8
	defaultBedtime        = "10:30 PM"
	defaultWakeTime       = "6:30 AM"
	defaultSleepFocus     = "recovery_optimization"
	defaultRecoveryStatus = "good"
	defaultQualityTarget  = 85
	defaultSleepConf      = 0.85

	defaultPracticeName    = "Mindfulness"
	defaultMoodTracking    = "Daily check-in recommended"
	defaultMotivationLevel = "medium"
	defaultMentalFocus     = "stress_management"
	defaultMentalConf      = 0.90

	defaultSummary = "Balanced wellness day ahead."
)

func defaultSessions() []Session {
	return []Session{
		{
			Day: "Monday", Type: "Upper Body", Duration: 45,
			Exercises: []Exercise{
				{Name: "Push-ups", Sets: 3, Reps: "12"},
				{Name: "Dumbbell Rows", Sets: 3, Reps: "10"},
				{Name: "Shoulder Press", Sets: 3, Reps: "10"},
			},
		},
		{
			Day: "Wednesday", Type: "Lower Body", Duration: 45,
			Exercises: []Exercise{
				{Name: "Squats", Sets: 4, Reps: "12"},
				{Name: "Lunges", Sets: 3, Reps: "10"},
				{Name: "Glute Bridges", Sets: 3, Reps: "15"},
			},
		},
		{
			Day: "Friday", Type: "Full Body", Duration: 40,
			Exercises: []Exercise{
				{Name: "Burpees", Sets: 3, Reps: "8"},
				{Name: "Mountain Climbers", Sets: 3, Reps: "20"},
				{Name: "Plank", Sets: 3, Reps: "30s"},
			},
		},
	}
}

func defaultMeals() []Meal {
	return []Meal{
		{
			Name: "Breakfast", Time: "8:00 AM", Calories: 420,
			Items:  []string{"Idli (3 pcs) + Sambar", "Filter coffee", "Banana"},
			Macros: "P: 12g | C: 75g | F: 8g", Cost: "₹40",
		},
		{
			Name: "Lunch", Time: "1:00 PM", Calories: 650,
			Items:  []string{"Rice (1 cup)", "Dal tadka", "Sabzi (Seasonal)", "Curd (1 bowl)", "Cucumber Salad"},
			Macros: "P: 22g | C: 90g | F: 18g", Cost: "₹60",
		},
		{
			Name: "Snack", Time: "5:00 PM", Calories: 200,
			Items:  []string{"Sprouts chaat", "Adrak Chai", "Marie biscuits (2)"},
			Macros: "P: 8g | C: 30g | F: 5g", Cost: "₹20",
		},
		{
			Name: "Dinner", Time: "8:30 PM", Calories: 550,
			Items:  []string{"Roti (2)", "Paneer bhurji", "Green vegetables", "Buttermilk"},
			Macros: "P: 25g | C: 55g | F: 22g", Cost: "₹55",
		},
	}
}

func defaultPractices() []Practice {
	return []Practice{
		{Activity: "Morning meditation", Duration: "10 min", Time: "7:00 AM"},
		{Activity: "Box breathing", Duration: "5 min", Time: "1:30 PM"},
		{Activity: "Gratitude journaling", Duration: "10 min", Time: "9:30 PM"},
	}
}
