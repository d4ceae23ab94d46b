package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/christopherklint97/wellsync/internal/dashboard"
	"github.com/christopherklint97/wellsync/internal/plan"
)

const (
	timelineVisible = 12
	barWidth        = 30
)

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.header())
	b.WriteString("\n")

	switch a.machine.State() {
	case dashboard.Idle:
		if a.errMsg != "" {
			b.WriteString(errorStyle.Render("Error: ") + a.errMsg + "\n\n")
		}
		b.WriteString("No plan for today yet.\n")
	case dashboard.Running:
		b.WriteString(a.spinner.View() + " Generating your plan...\n")
	case dashboard.Showing:
		b.WriteString(warningStyle.Render("A new plan is ready. Accept it, ask for changes or skip today."))
		b.WriteString("\n\n")
		b.WriteString(a.planView())
	case dashboard.Stored:
		b.WriteString(a.planView())
	}
	b.WriteString(a.help())

	if a.status != "" {
		b.WriteString("\n" + dimStyle.Render(a.status))
	}
	return b.String()
}

var actionHints = []struct {
	key   string
	label string
	ev    dashboard.Event
}{
	{"g", "generate", dashboard.Generate},
	{"a", "accept", dashboard.Accept},
	{"m", "modify", dashboard.Modify},
	{"s", "skip", dashboard.Skip},
}

// help lists only the keys that do something in the current state.
func (a *App) help() string {
	var parts []string
	for _, h := range actionHints {
		if a.machine.Can(h.ev) {
			parts = append(parts, h.key+": "+h.label)
		}
	}
	if len(a.agenda) > 0 {
		parts = append(parts, "↑/↓: move", "space: toggle")
	}
	parts = append(parts, "q: quit")
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (a *App) header() string {
	now := a.now()
	name := "there"
	if p := a.opts.Profile; p != nil {
		if f := strings.Fields(p.FullName); len(f) > 0 {
			name = f[0]
		}
	}
	title := titleStyle.Render(fmt.Sprintf("%s, %s", dashboard.Greeting(now), name))

	st := dashboard.Progress(a.opts.Profile)
	line := fmt.Sprintf("%d day streak • %s pts • %d/%d achievements",
		st.Streak, humanize.Comma(int64(st.Points)), st.UnlockedCount(), len(st.Achievements))
	if p := a.opts.Profile; p != nil && p.PlanAcceptedAt != nil {
		line += " • plan accepted " + humanize.RelTime(*p.PlanAcceptedAt, now, "ago", "from now")
	}
	return title + "\n" + subtitleStyle.Render(line)
}

func (a *App) planView() string {
	var b strings.Builder

	b.WriteString(highlightStyle.Render(plan.Summary(a.doc)))
	b.WriteString("\n\n")
	b.WriteString(a.quickStats())
	b.WriteString("\n\n")
	b.WriteString(a.cards())
	b.WriteString("\n\n")
	b.WriteString(a.progressBar())
	b.WriteString("\n\n")
	b.WriteString(a.timeline())
	return b.String()
}

func (a *App) quickStats() string {
	p := a.plan
	stats := []string{
		fmt.Sprintf("%s steps", humanize.Comma(int64(p.Fitness.StepGoal()))),
		fmt.Sprintf("%d glasses", p.Nutrition.HydrationGlasses()),
		fmt.Sprintf("%s kcal", humanize.Comma(int64(p.Nutrition.DailyCalories))),
		fmt.Sprintf("%d mindful min", p.Mental.DailyMinutes()),
	}
	for i, s := range stats {
		stats[i] = statStyle.Render(s)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, stats...)
}

func (a *App) cards() string {
	p := a.plan

	workout := "Rest"
	if len(p.Fitness.Sessions) > 0 {
		s := p.Fitness.Sessions[0]
		workout = fmt.Sprintf("%s, %d min", s.Type, s.Duration)
	}

	cards := []string{
		card(plan.DomainFitness,
			workout,
			"Intensity: "+p.Fitness.Intensity,
			"Focus: "+p.Fitness.Focus),
		card(plan.DomainNutrition,
			fmt.Sprintf("Meals: %s of %s kcal", humanize.Comma(int64(p.Nutrition.MealCalories())), humanize.Comma(int64(p.Nutrition.DailyCalories))),
			fmt.Sprintf("P %s / C %s / F %s", p.Nutrition.Macros.Protein, p.Nutrition.Macros.Carbs, p.Nutrition.Macros.Fats),
			"Water: "+p.Nutrition.Hydration),
		card(plan.DomainSleep,
			fmt.Sprintf("%.1f h target", p.Sleep.TargetHours),
			fmt.Sprintf("%s to %s", p.Sleep.Bedtime, p.Sleep.WakeTime),
			"Recovery: "+p.Sleep.RecoveryStatus),
		card(plan.DomainMental,
			fmt.Sprintf("%d practices, %d min", len(p.Mental.Practices), p.Mental.DailyMinutes()),
			"Mood: "+p.Mental.MoodTracking,
			"Motivation: "+p.Mental.MotivationLevel),
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func card(d plan.Domain, lines ...string) string {
	title := domainStyle(d).Render(strings.ToUpper(d.String()))
	return cardStyle.BorderForeground(domainColors[d]).Render(title + "\n" + strings.Join(lines, "\n"))
}

func (a *App) progressBar() string {
	total := len(a.agenda)
	done := a.completed()
	filled := 0
	if total > 0 {
		filled = done * barWidth / total
	}
	bar := successStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
	line := fmt.Sprintf("%s %d/%d done", bar, done, total)
	if a.celebrating {
		line += "  " + successStyle.Render("All done for today!")
	}
	return line
}

func (a *App) timeline() string {
	if len(a.agenda) == 0 {
		return dimStyle.Render("  Nothing scheduled") + "\n"
	}

	var b strings.Builder
	start := 0
	if a.cursor >= timelineVisible {
		start = a.cursor - timelineVisible + 1
	}
	end := min(start+timelineVisible, len(a.agenda))

	for i := start; i < end; i++ {
		e := a.agenda[i]

		cursor := "  "
		if i == a.cursor {
			cursor = "> "
		}
		check := "[ ]"
		done := a.opts.Tracker.IsComplete(e.ID())
		if done {
			check = "[x]"
		}

		tag := domainStyle(e.Domain).Render(fmt.Sprintf("%-9s", e.Domain))
		activity := e.Activity
		if done {
			activity = dimStyle.Render(activity)
		}
		prefix := cursor + check
		if i == a.cursor {
			prefix = highlightStyle.Render(prefix)
		}
		fmt.Fprintf(&b, "%s %8s  %s %s\n", prefix, e.Time, tag, activity)
	}
	return b.String()
}
