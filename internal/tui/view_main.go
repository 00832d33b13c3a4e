package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderMain() string {
	s := a.state
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n")
	subtitle := styleSubtitle.Render("Employee Sentiment Analysis")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, subtitle))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderStatusLine()))
	b.WriteString("\n\n")

	boxWidth := min(80, max(a.width-4, 30))

	// Prompt picker
	var lines []string
	if s.app == nil {
		lines = append(lines, styleSubtitle.Render("  Connecting to provider..."))
	} else {
		all := s.app.Prompts.All()
		start, end := window(len(all), s.promptCursor, 8)
		for i := start; i < end; i++ {
			name := truncate(all[i].Name, boxWidth-6)
			if i == s.promptCursor {
				line := "> " + name
				if s.focus == focusPicker {
					line = styleSelected.Render(line)
				}
				lines = append(lines, line)
			} else {
				lines = append(lines, lipgloss.NewStyle().Foreground(colorMuted).Render("  "+name))
			}
		}
	}

	pickerStyle := styleBox.Copy().Width(boxWidth)
	if s.focus == focusPicker {
		pickerStyle = pickerStyle.BorderForeground(colorPrimary)
	}
	picker := pickerStyle.Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, picker))
	b.WriteString("\n")

	// Free text prompt, overrides the picker when not blank
	customStyle := styleBox.Copy().Width(boxWidth)
	if s.focus == focusCustom {
		customStyle = customStyle.BorderForeground(colorSecondary)
	}
	custom := customStyle.Render(s.customPrompt.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, custom))
	b.WriteString("\n\n")

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleNotice.Render(s.notice)))
		b.WriteString("\n\n")
	}

	var status string
	if s.focus == focusCustom {
		status = "[Tab] Back to list  [Ctrl+R] Analyze"
	} else {
		status = "[g] Generate  [o] Open CSV  [p] Preview  [a] Analyze  [Tab] Own prompt  [s] Settings  [?] Help  [Esc] Quit"
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(status)))

	return a.centerVertically(b.String())
}

// renderStatusLine shows the provider state and the current dataset
func (a *App) renderStatusLine() string {
	s := a.state

	var provider string
	switch {
	case s.app != nil && s.providerError != nil:
		provider = styleWarning.Render(fmt.Sprintf("%s/%s (unreachable)", s.config.Provider, s.config.Model))
	case s.app != nil:
		provider = styleNotice.Render(fmt.Sprintf("%s/%s", s.config.Provider, s.config.Model))
	case s.providerError != nil:
		provider = lipgloss.NewStyle().Foreground(colorError).Render("provider error: " + truncate(s.providerError.Error(), 50))
	default:
		provider = styleSubtitle.Render("connecting...")
	}

	data := styleSubtitle.Render("no dataset loaded")
	if s.dataset.Len() > 0 {
		data = fmt.Sprintf("%d entries from %s", s.dataset.Len(), truncate(s.datasetSource, 40))
	}

	return provider + styleSubtitle.Render("  |  ") + data
}

// window returns the visible [start, end) range of n items keeping
// cursor in view
func window(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}
