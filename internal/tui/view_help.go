package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	workflow := []string{
		"  1. Generate a synthetic dataset [g] or open a CSV [o]",
		"  2. Pick an analysis prompt, or Tab to write your own",
		"  3. Analyze [a] and scroll through the report",
		"",
		"  CSV files use a Type,Content header. Only the",
		"  Content column is sent to the model.",
	}

	workflowBox := styleBox.Copy().
		Width(60).
		Render(strings.Join(workflow, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, workflowBox))
	b.WriteString("\n\n")

	shortcuts := []string{
		"  g              Generate dataset",
		"  o              Open CSV file",
		"  p              Preview current dataset",
		"  j/k            Move through prompts",
		"  Tab            Switch to own prompt",
		"  a, Ctrl+R      Analyze",
		"  w              Save dataset or report",
		"  s              Settings",
		"  Esc            Go back / Quit",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.Copy().
		Width(60).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
