package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.Viewport.Height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.projectList(),
		m.logPane(),
	)
}

func (m Model) projectList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PROJECTS") + "\n\n")

	for _, project := range m.Projects {
		var style lipgloss.Style
		var icon string

		switch project.Status {
		case StatusBuilding:
			style = projectBuildingStyle
			icon = "●"
		case StatusUpToDate:
			style = projectUpToDateStyle
			icon = "✓"
		case StatusFailed:
			style = projectFailedStyle
			icon = "✗"
		default: // StatusPending
			style = projectPendingStyle
			icon = "○"
		}

		// A project the classifier skipped never opened a build span; mark
		// it distinctly from one that was actually (re)compiled.
		if project.Skipped {
			style = projectSkippedStyle
			icon = "⚡"
		}

		line := fmt.Sprintf("%s %s", icon, project.Name)
		if project.Name == m.ActiveProjectName {
			line = "> " + line
		} else {
			line = "  " + line
		}

		s.WriteString(style.Render(line) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m Model) logPane() string {
	var header string
	if m.ActiveProjectName != "" {
		header = titleStyle.Render("LOGS: " + m.ActiveProjectName)
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			m.Viewport.View(),
		),
	)
}
