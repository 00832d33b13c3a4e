package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/pulse/internal/config"
)

func (a *App) renderSettings() string {
	switch a.state.settingsMode {
	case "provider":
		names := make([]string, len(config.Providers))
		for i, p := range config.Providers {
			names[i] = p.Name
		}
		current := a.state.config.Provider
		if p := config.GetProvider(current); p != nil {
			current = p.Name
		}
		return a.renderPicker("Select Provider", "", names, current)
	case "model":
		p := config.GetProvider(a.state.config.Provider)
		if p == nil {
			return a.renderPicker("Select Model", "No provider selected", nil, "")
		}
		return a.renderPicker("Select Model", "Provider: "+p.Name, p.Models, a.state.config.Model)
	case "apikey":
		return a.renderSettingsAPIKey()
	default:
		return a.renderSettingsMain()
	}
}

func (a *App) renderSettingsMain() string {
	cfg := a.state.config

	connection := []string{
		fmt.Sprintf("Provider  %s", providerName(cfg.Provider)),
		fmt.Sprintf("Model     %s", cfg.Model),
		fmt.Sprintf("API key   %s", maskKey(cfg.APIKey)),
		fmt.Sprintf("Timeout   %s", cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		connection = append(connection, fmt.Sprintf("Endpoint  %s", truncate(cfg.BaseURL, 44)))
	}

	sampling := []string{
		fmt.Sprintf("%-12s %8s %8s", "", "generate", "analyze"),
		fmt.Sprintf("%-12s %8d %8d", "rows", cfg.Generate.Count, cfg.Analysis.MaxRows),
		fmt.Sprintf("%-12s %8.2f %8.2f", "temperature", cfg.Generate.Params.Temperature, cfg.Analysis.Params.Temperature),
		fmt.Sprintf("%-12s %8.2f %8.2f", "top_p", cfg.Generate.Params.TopP, cfg.Analysis.Params.TopP),
		fmt.Sprintf("%-12s %8d %8d", "top_k", cfg.Generate.Params.TopK, cfg.Analysis.Params.TopK),
		fmt.Sprintf("%-12s %8d %8d", "max tokens", cfg.Generate.Params.MaxOutputTokens, cfg.Analysis.Params.MaxOutputTokens),
	}

	dir, user := a.promptsInfo()
	library := []string{
		fmt.Sprintf("Directory  %s", truncate(dir, 44)),
		fmt.Sprintf("Own files  %d", user),
	}

	body := []string{
		settingsSection("Connection", connection),
		settingsSection("Sampling", sampling),
		settingsSection("Prompts", library),
		settingsSection("Actions", []string{
			"[p] Provider  [m] Model  [k] API key  [r] Rerun setup",
		}),
	}

	return a.settingsFrame("Settings", "", strings.Join(body, "\n"), "[Esc] Back")
}

// renderPicker draws a selectable list, marking the entry in use
func (a *App) renderPicker(title, subtitle string, items []string, current string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		line := "  " + item
		if item == current {
			line += " (current)"
		}
		if i == a.state.settingsSelected {
			line = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("> " + strings.TrimPrefix(line, "  "))
		}
		lines[i] = line
	}

	list := styleBox.Copy().Width(50).Render(strings.Join(lines, "\n"))
	return a.settingsFrame(title, subtitle, list, "[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")
}

func (a *App) renderSettingsAPIKey() string {
	input := styleBox.Copy().
		Width(50).
		BorderForeground(colorPrimary).
		Render(a.state.apiKeyInput.View())
	return a.settingsFrame("API Key", "Saved to the config file, not to the environment", input, "[Enter] Save  [Esc] Cancel")
}

// settingsFrame centers a titled settings page with a status line
func (a *App) settingsFrame(title, subtitle, body, status string) string {
	var b strings.Builder

	center := func(s string) {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, s))
		b.WriteString("\n\n")
	}

	center(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(title))
	if subtitle != "" {
		center(styleSubtitle.Render(subtitle))
	}
	if body != "" {
		center(body)
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(status)))

	return a.centerVertically(b.String())
}

func settingsSection(title string, lines []string) string {
	return styleBox.Copy().
		Width(60).
		Render(styleSubtitle.Render(title) + "\n" + strings.Join(lines, "\n"))
}

// promptsInfo reports the user prompt directory and how many files it contributed
func (a *App) promptsInfo() (string, int) {
	if a.state.app == nil || a.state.app.Prompts == nil {
		dir, err := a.state.config.ResolvedPromptsDir()
		if err != nil {
			return "unavailable", 0
		}
		return dir, 0
	}

	lib := a.state.app.Prompts
	user := 0
	for _, p := range lib.All() {
		if p.Path != "" {
			user++
		}
	}
	return lib.Dir(), user
}

func providerName(id string) string {
	if p := config.GetProvider(id); p != nil {
		return p.Name
	}
	return id
}

func maskKey(k string) string {
	switch {
	case k == "":
		return "not set"
	case len(k) > 8:
		return k[:4] + "****" + k[len(k)-4:]
	default:
		return "****"
	}
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state
	cfg := s.config

	switch s.settingsMode {
	case "provider":
		switch {
		case key.Matches(msg, keys.Back):
			s.settingsMode = ""
		case key.Matches(msg, keys.Up):
			if s.settingsSelected > 0 {
				s.settingsSelected--
			}
		case key.Matches(msg, keys.Down):
			if s.settingsSelected < len(config.Providers)-1 {
				s.settingsSelected++
			}
		case key.Matches(msg, keys.Enter):
			p := config.Providers[s.settingsSelected]
			if p.ID != cfg.Provider {
				cfg.Provider = p.ID
				cfg.Model = p.DefaultModel
				cfg.APIKey = ""
				cfg.BaseURL = ""
			}
			if p.NeedsAPIKey && cfg.APIKey == "" {
				return a.editAPIKey()
			}
			if p.NeedsBaseURL && cfg.BaseURL == "" {
				s.needsSetup = true
				s.setupStep = 2
				a.view = viewSetup
				return s.baseURLInput.Focus()
			}
			s.settingsMode = ""
			return a.applySettings()
		}

	case "model":
		provider := config.GetProvider(cfg.Provider)
		if provider == nil || len(provider.Models) == 0 {
			s.settingsMode = ""
			return nil
		}
		switch {
		case key.Matches(msg, keys.Back):
			s.settingsMode = ""
		case key.Matches(msg, keys.Up):
			if s.settingsSelected > 0 {
				s.settingsSelected--
			}
		case key.Matches(msg, keys.Down):
			if s.settingsSelected < len(provider.Models)-1 {
				s.settingsSelected++
			}
		case key.Matches(msg, keys.Enter):
			cfg.Model = provider.Models[s.settingsSelected]
			s.settingsMode = ""
			return a.applySettings()
		}

	case "apikey":
		switch {
		case key.Matches(msg, keys.Back):
			s.apiKeyInput.Blur()
			s.settingsMode = ""
			return nil
		case key.Matches(msg, keys.Enter):
			value := strings.TrimSpace(s.apiKeyInput.Value())
			if value == "" {
				return nil
			}
			cfg.APIKey = value
			s.apiKeyInput.Blur()
			s.settingsMode = ""
			return a.applySettings()
		}
		var cmd tea.Cmd
		s.apiKeyInput, cmd = s.apiKeyInput.Update(msg)
		return cmd

	default:
		switch msg.String() {
		case "esc", "q":
			a.view = viewMain
		case "p":
			s.settingsMode = "provider"
			s.settingsSelected = providerIndex(cfg.Provider)
		case "m":
			s.settingsMode = "model"
			s.settingsSelected = 0
			if p := config.GetProvider(cfg.Provider); p != nil {
				for i, m := range p.Models {
					if m == cfg.Model {
						s.settingsSelected = i
					}
				}
			}
		case "k":
			return a.editAPIKey()
		case "r":
			s.needsSetup = true
			s.setupStep = 0
			s.selectedProvider = providerIndex(cfg.Provider)
			a.view = viewSetup
		}
	}

	return nil
}

func (a *App) editAPIKey() tea.Cmd {
	a.state.settingsMode = "apikey"
	a.state.apiKeyInput.Reset()
	return a.state.apiKeyInput.Focus()
}

// applySettings persists the config and rebuilds the provider from it
func (a *App) applySettings() tea.Cmd {
	a.state.app = nil
	a.state.providerReady = false
	a.state.providerError = nil
	return saveConfig(a.state.config)
}

func providerIndex(id string) int {
	for i, p := range config.Providers {
		if p.ID == id {
			return i
		}
	}
	return 0
}
