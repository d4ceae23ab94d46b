package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/wellsync/internal/plan"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12:00 AM", 0},
		{"12:00 PM", 720},
		{"11:45 PM", 1425},
		{"6:30 AM", 390},
		{"1:00 PM", 780},
		{"12:30 AM", 30},
		{"7 PM", 1140},
		{"7:05 pm", 1145},
		{"", 0},
		{"6:30", 0},
		{"six:30 AM", 0},
		{"6:xx AM", 0},
		{"25:00 PM", 0},
		{"0:30 AM", 0},
		{"13:15 PM", 0},
		{"-1:00 PM", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseClock(tt.in))
		})
	}
}

func TestFormatClock(t *testing.T) {
	for _, s := range []string{"12:00 AM", "12:00 PM", "11:45 PM", "6:05 AM", "1:00 PM"} {
		assert.Equal(t, s, FormatClock(ParseClock(s)))
	}
	assert.Equal(t, "12:10 AM", FormatClock(1450))
}

func TestBuild_DailyOrder(t *testing.T) {
	sleep := plan.Sleep{Bedtime: "10:30 PM", WakeTime: "6:30 AM"}
	nutrition := plan.Nutrition{Meals: []plan.Meal{{Time: "1:00 PM", Name: "Lunch"}}}

	got := Build(plan.Fitness{}, nutrition, sleep, plan.Mental{})

	var lines []string
	for _, e := range got {
		lines = append(lines, e.String())
	}
	want := []string{"6:30 AM Wake up", "1:00 PM Lunch", "5:30 PM Workout", "10:30 PM Wind Down"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("agenda mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_CollectsAllDomains(t *testing.T) {
	fitness := plan.Fitness{Sessions: []plan.Session{{Type: "Leg Day"}, {Type: "Rest"}}}
	nutrition := plan.Nutrition{Meals: []plan.Meal{
		{Name: "Dinner", Time: "8:30 PM"},
		{Name: "Breakfast", Time: "8:00 AM"},
		{Name: "Untimed"},
	}}
	mental := plan.Mental{Practices: []plan.Practice{
		{Activity: "Journal", Time: "5:30 PM"},
		{Activity: "", Time: "9:00 AM"},
	}}
	sleep := plan.Sleep{WakeTime: "7:00 AM"}

	got := Build(fitness, nutrition, sleep, mental)

	want := []Entry{
		{Time: "7:00 AM", Activity: "Wake up", Domain: plan.DomainSleep},
		{Time: "8:00 AM", Activity: "Breakfast", Domain: plan.DomainNutrition},
		{Time: "5:30 PM", Activity: "Leg Day", Domain: plan.DomainFitness},
		{Time: "5:30 PM", Activity: "Journal", Domain: plan.DomainMental},
		{Time: "8:30 PM", Activity: "Dinner", Domain: plan.DomainNutrition},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("agenda mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_MalformedTimesSortFirst(t *testing.T) {
	nutrition := plan.Nutrition{Meals: []plan.Meal{
		{Name: "Lunch", Time: "1:00 PM"},
		{Name: "Mystery", Time: "whenever"},
	}}
	got := Build(plan.Fitness{}, nutrition, plan.Sleep{}, plan.Mental{})

	require.Len(t, got, 3)
	assert.Equal(t, "Mystery", got[0].Activity)
	assert.Equal(t, 0, got[0].Minutes())
}

func TestBuild_NonDecreasing(t *testing.T) {
	p := plan.ExtractAll(plan.Document(`{"unified_plan": {
		"sleep": {"bedtime": "11:15 PM", "wake_time": "5:45 AM"},
		"mental_wellness": {"daily_practices": [
			{"activity": "Meditate", "time": "12:15 PM"},
			{"activity": "Stretch", "time": "12:05 AM"}
		]}
	}}`))

	got := FromPlan(p)
	require.NotEmpty(t, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Minutes(), got[i].Minutes(), "entry %d out of order", i)
	}
	assert.Equal(t, "Stretch", got[0].Activity)
	assert.Equal(t, "Wind Down", got[len(got)-1].Activity)
}

func TestEntryID(t *testing.T) {
	e := Entry{Time: "1:00 PM", Activity: "Lunch"}
	assert.Equal(t, "1:00 PM-Lunch", e.ID())
	assert.Equal(t, []string{"1:00 PM-Lunch"}, IDs([]Entry{e}))
}

func TestNext(t *testing.T) {
	entries := []Entry{{Time: "7:00 AM", Activity: "a"}, {Time: "1:00 PM", Activity: "b"}}

	e, ok := Next(entries, 8*60)
	require.True(t, ok)
	assert.Equal(t, "b", e.Activity)

	_, ok = Next(entries, 20*60)
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	out := Format([]Entry{{Time: "7:00 AM", Activity: "Wake up", Domain: plan.DomainSleep}})
	assert.Contains(t, out, "7:00 AM")
	assert.Contains(t, out, "Wake up")
}
