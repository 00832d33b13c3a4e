package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderPreview() string {
	s := a.state
	var b strings.Builder

	title := styleTitle.Render("Dataset")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n")

	info := fmt.Sprintf("%d entries from %s", s.dataset.Len(), s.datasetSource)
	if s.skipped > 0 {
		info += fmt.Sprintf(", %d malformed lines skipped", s.skipped)
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(info)))
	b.WriteString("\n")

	var counts []string
	for _, tc := range s.dataset.TypeCounts() {
		label := tc.Type
		if label == "" {
			label = "(none)"
		}
		counts = append(counts, fmt.Sprintf("%s: %d", label, tc.Count))
	}
	if len(counts) > 0 {
		line := truncate(strings.Join(counts, "  "), max(a.width-4, 20))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tableBox := styleBox.Copy().
		BorderForeground(colorPrimary).
		Render(s.preview.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, tableBox))
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n")
	}

	status := styleStatusBar.Render("[j/k] Scroll  [w] Save CSV  [a] Choose prompt  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
