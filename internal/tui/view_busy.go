package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderBusy() string {
	var b strings.Builder

	title := styleTitle.Render("Working")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	line := a.state.spinner.View() + " " + a.state.busyLabel
	box := styleBox.Copy().
		Width(min(60, max(a.width-4, 30))).
		BorderForeground(colorSecondary).
		Render(line)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	info := styleSubtitle.Render(fmt.Sprintf("%s/%s  timeout %s",
		a.state.config.Provider, a.state.config.Model, a.state.config.Timeout))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, info))
	b.WriteString("\n\n")

	status := styleStatusBar.Render("[Ctrl+C] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
