package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderPath() string {
	var b strings.Builder

	var heading, hint string
	switch a.state.pathMode {
	case pathSaveDataset:
		heading = "Save dataset as CSV"
		hint = "The file is written with a Type,Content header"
	case pathSaveReport:
		heading = "Save analysis report"
		hint = "The report is written exactly as the model returned it"
	default:
		heading = "Open a feedback CSV"
		hint = "The file needs a Content column, Type is optional"
	}

	title := styleTitle.Render(heading)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(hint)))
	b.WriteString("\n\n")

	inputBox := styleBox.Copy().
		Width(60).
		BorderForeground(colorSecondary).
		Render(a.state.pathInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	status := styleStatusBar.Render("[Enter] Confirm  [Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
