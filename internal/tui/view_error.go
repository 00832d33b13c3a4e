package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/pulse/internal/analyzer"
	"github.com/sant0-9/pulse/internal/dataset"
	"github.com/sant0-9/pulse/internal/generator"
)

func (a *App) renderError() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	errMsg := "Unknown error"
	if a.state.err != nil {
		errMsg = a.state.err.Error()
	}

	errBox := styleBox.Copy().
		Width(min(60, max(a.width-4, 30))).
		BorderForeground(colorError).
		Render(errMsg)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	if suggestions := suggest(a.state.err); len(suggestions) > 0 {
		suggBox := styleBox.Copy().
			Width(min(60, max(a.width-4, 30))).
			BorderForeground(colorMuted).
			Render("Suggestions:\n" + strings.Join(suggestions, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
		b.WriteString("\n\n")
	}

	actions := "[s] Settings  [Esc] Back"
	if a.state.retry != nil {
		actions = "[r] Retry  " + actions
	}
	status := styleStatusBar.Render(actions)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// suggest maps an error to hints for the user, typed errors first
func suggest(err error) []string {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, dataset.ErrMissingColumn):
		return []string{
			"The CSV needs a header row with a Content column",
			"Export a generated dataset to see the expected layout",
		}
	case errors.Is(err, analyzer.ErrEmptyInput):
		return []string{"Generate a dataset [g] or open a CSV [o] first"}
	case errors.Is(err, analyzer.ErrEmptyInstruction):
		return []string{"Pick a prompt from the list or write your own"}
	case errors.Is(err, analyzer.ErrTooLarge):
		return []string{
			"Split the dataset into smaller files",
			"Or raise analysis.max_rows in ~/.config/pulse/config.yaml",
		}
	case errors.Is(err, analyzer.ErrTimeout), errors.Is(err, generator.ErrTimeout):
		return []string{
			"The model did not answer in time",
			"Raise timeout in ~/.config/pulse/config.yaml or retry",
		}
	}

	errLower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errLower, "api key") || strings.Contains(errLower, "401") || strings.Contains(errLower, "unauthorized"):
		return []string{
			"Check your API key in ~/.config/pulse/config.yaml",
			"Or press [s] to open settings",
		}
	case strings.Contains(errLower, "ollama"):
		return []string{
			"Make sure Ollama is running: ollama serve",
			"Or switch to a cloud provider in settings",
		}
	case strings.Contains(errLower, "rate limit") || strings.Contains(errLower, "429"):
		return []string{
			"You've hit the API rate limit",
			"Wait a moment and try again",
		}
	case strings.Contains(errLower, "connection") || strings.Contains(errLower, "connect"):
		return []string{
			"Check your internet connection",
			"Or try using Ollama for offline mode",
		}
	case strings.Contains(errLower, "no such file") || strings.Contains(errLower, "not found"):
		return []string{
			"Check the file path is correct",
			"Make sure the file exists and is readable",
		}
	}

	return nil
}
