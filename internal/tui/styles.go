package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherklint97/wellsync/internal/plan"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(28)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2, 0, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1)
)

var domainColors = map[plan.Domain]lipgloss.Color{
	plan.DomainFitness:   lipgloss.Color("208"),
	plan.DomainNutrition: lipgloss.Color("10"),
	plan.DomainSleep:     lipgloss.Color("12"),
	plan.DomainMental:    lipgloss.Color("13"),
}

func domainStyle(d plan.Domain) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(domainColors[d]).Bold(true)
}
