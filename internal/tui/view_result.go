package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderResult() string {
	s := a.state
	var b strings.Builder

	title := styleTitle.Render("Analysis")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n")

	// Show what was asked
	asked := styleSubtitle.Render("> " + truncate(oneLine(s.resultInstruction), max(a.width-8, 20)))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, asked))
	b.WriteString("\n\n")

	resultBox := styleBox.Copy().
		BorderForeground(colorPrimary).
		Render(s.report.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, resultBox))
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n")
	}

	scroll := fmt.Sprintf("%3.f%%", s.report.ScrollPercent()*100)
	status := styleStatusBar.Render(scroll + "  [j/k] Scroll  [w] Save report  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
