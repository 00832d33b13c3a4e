package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/pulse/internal/config"
)

func (a *App) renderSetup() string {
	switch a.state.setupStep {
	case 0:
		return a.renderProviderSelection()
	case 1:
		return a.renderInputStep("Enter your %s API key:", a.state.apiKeyInput.View())
	case 2:
		return a.renderInputStep("Enter the %s endpoint URL:", a.state.baseURLInput.View())
	default:
		return ""
	}
}

func (a *App) renderProviderSelection() string {
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render("Welcome! Choose the model provider for feedback generation and analysis:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var providerLines []string
	for i, p := range config.Providers {
		var line string
		cursor := "  "
		if i == a.state.selectedProvider {
			cursor = "> "
			line = styleSelected.Render(fmt.Sprintf("%s[x] %-14s %s", cursor, p.Name, p.Description))
		} else {
			line = lipgloss.NewStyle().
				Foreground(colorMuted).
				Render(fmt.Sprintf("%s[ ] %-14s %s", cursor, p.Name, p.Description))
		}
		providerLines = append(providerLines, line)
	}

	providerBox := styleBox.Copy().
		Width(64).
		Render(strings.Join(providerLines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, providerBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[j/k] Navigate  [Enter] Select  [Ctrl+C] Quit")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) renderInputStep(prompt, input string) string {
	var b strings.Builder

	provider := config.GetProvider(a.state.config.Provider)
	name := a.state.config.Provider
	if provider != nil {
		name = provider.Name
	}

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := lipgloss.NewStyle().
		Foreground(colorWhite).
		Bold(true).
		Render(fmt.Sprintf(prompt, name))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if a.state.setupStep == 1 && provider != nil && provider.SignupURL != "" {
		link := styleSubtitle.Render(fmt.Sprintf("Get one at: %s", provider.SignupURL))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, link))
		b.WriteString("\n\n")
	}

	inputBox := styleBox.Copy().
		Width(60).
		BorderForeground(colorSecondary).
		Render(input)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
	b.WriteString("\n\n")

	instructions := styleStatusBar.Render("[Enter] Continue  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}

func (a *App) handleSetupKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch s.setupStep {
	case 0: // Provider selection
		switch msg.String() {
		case "up", "k":
			if s.selectedProvider > 0 {
				s.selectedProvider--
			}
		case "down", "j":
			if s.selectedProvider < len(config.Providers)-1 {
				s.selectedProvider++
			}
		case "enter":
			provider := config.Providers[s.selectedProvider]
			s.config.Provider = provider.ID
			s.config.Model = provider.DefaultModel
			return a.nextSetupStep(0)
		}
		return nil

	case 1: // API key entry
		switch msg.String() {
		case "esc":
			s.setupStep = 0
			s.apiKeyInput.Reset()
			s.apiKeyInput.Blur()
			return nil
		case "enter":
			value := strings.TrimSpace(s.apiKeyInput.Value())
			if value == "" {
				return nil
			}
			s.config.APIKey = value
			s.apiKeyInput.Blur()
			return a.nextSetupStep(1)
		}
		var cmd tea.Cmd
		s.apiKeyInput, cmd = s.apiKeyInput.Update(msg)
		return cmd

	case 2: // Endpoint entry
		switch msg.String() {
		case "esc":
			s.setupStep = 0
			s.baseURLInput.Reset()
			s.baseURLInput.Blur()
			return nil
		case "enter":
			value := strings.TrimSpace(s.baseURLInput.Value())
			if value == "" {
				return nil
			}
			s.config.BaseURL = value
			s.baseURLInput.Blur()
			return saveConfig(s.config)
		}
		var cmd tea.Cmd
		s.baseURLInput, cmd = s.baseURLInput.Update(msg)
		return cmd
	}

	return nil
}

// nextSetupStep moves past step, skipping inputs the provider does not need
func (a *App) nextSetupStep(step int) tea.Cmd {
	s := a.state
	provider := config.GetProvider(s.config.Provider)

	if step < 1 && provider != nil && provider.NeedsAPIKey {
		s.setupStep = 1
		return s.apiKeyInput.Focus()
	}
	if step < 2 && provider != nil && provider.NeedsBaseURL {
		s.setupStep = 2
		return s.baseURLInput.Focus()
	}
	return saveConfig(s.config)
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}
