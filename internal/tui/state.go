package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/dataset"
)

type focusArea int

const (
	focusPicker focusArea = iota
	focusCustom
)

type pathMode int

const (
	pathOpen pathMode = iota
	pathSaveDataset
	pathSaveReport
)

type state struct {
	// Config
	config     *config.Config
	needsSetup bool

	// Setup wizard state
	setupStep        int
	selectedProvider int
	apiKeyInput      textinput.Model
	baseURLInput     textinput.Model

	// Settings state
	settingsMode     string
	settingsSelected int

	// Services, built once the provider is configured
	app           *app.App
	providerReady bool
	providerError error

	// Current dataset, generated or loaded
	dataset       dataset.Dataset
	datasetSource string
	skipped       int
	preview       table.Model

	// Prompt selection
	promptCursor int
	customPrompt textarea.Model
	focus        focusArea

	// Path entry for open and save
	pathInput  textinput.Model
	pathMode   pathMode
	returnView view

	// Busy while a model call is in flight
	busy      bool
	busyLabel string
	spinner   spinner.Model

	// Analysis report
	result            string
	resultInstruction string
	report            viewport.Model

	// Last error and the action that caused it
	err    error
	retry  func() tea.Cmd
	notice string
}

func newState(cfg *config.Config) *state {
	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	baseURL := textinput.New()
	baseURL.Placeholder = "https://your-endpoint/v1"
	baseURL.CharLimit = 300
	baseURL.Width = 50

	custom := textarea.New()
	custom.Placeholder = "Or enter your own prompt..."
	custom.ShowLineNumbers = false
	custom.CharLimit = 2000
	custom.SetWidth(60)
	custom.SetHeight(3)

	path := textinput.New()
	path.CharLimit = 500
	path.Width = 50

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorSecondary)),
	)

	return &state{
		config:       cfg,
		apiKeyInput:  apiKey,
		baseURLInput: baseURL,
		customPrompt: custom,
		pathInput:    path,
		spinner:      sp,
		preview:      table.New(table.WithColumns(previewColumns(80))),
		report:       viewport.New(80, 20),
	}
}

// promptCount is the number of picker entries, placeholder included
func (s *state) promptCount() int {
	if s.app == nil {
		return 0
	}
	return s.app.Prompts.Len()
}
