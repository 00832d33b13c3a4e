package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/dataset"
)

const reportFilename = "analysis_report.md"

var errNotConnected = errors.New("provider is not connected yet, check your settings")

type view int

const (
	viewMain view = iota
	viewSetup
	viewBusy
	viewPreview
	viewPath
	viewResult
	viewSettings
	viewHelp
	viewError
)

type App struct {
	width    int
	height   int
	view     view
	state    *state
	quitting bool
}

// NewApp creates the terminal UI. When needsSetup is set the setup
// wizard runs before anything talks to a provider.
func NewApp(cfg *config.Config, needsSetup bool) *App {
	s := newState(cfg)
	s.needsSetup = needsSetup

	return &App{
		view:  viewMain,
		state: s,
	}
}

func (a *App) Init() tea.Cmd {
	if a.state.needsSetup {
		a.view = viewSetup
		return tea.Batch(tea.WindowSize(), textinput.Blink)
	}

	return tea.Batch(
		tea.WindowSize(),
		textarea.Blink,
		connect(a.state.config),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := a.state

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case spinner.TickMsg:
		if !s.busy {
			return a, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return a, cmd

	case setupCompleteMsg:
		s.needsSetup = false
		a.view = viewMain
		return a, connect(s.config)

	case setupErrorMsg:
		a.showError(msg.error, nil)
		return a, nil

	case providerReadyMsg:
		s.app = msg.app
		s.providerReady = true
		s.providerError = msg.pingErr
		if s.promptCursor >= s.promptCount() {
			s.promptCursor = 0
		}
		return a, nil

	case providerErrorMsg:
		s.app = nil
		s.providerReady = false
		s.providerError = msg.error
		return a, nil

	case generateDoneMsg:
		s.busy = false
		if msg.err != nil {
			a.showError(msg.err, a.startGenerate)
			return a, nil
		}
		a.setDataset(msg.result.Dataset, "generated", msg.result.Skipped)
		s.notice = fmt.Sprintf("Generated %d entries", msg.result.Dataset.Len())
		a.view = viewPreview
		return a, nil

	case analyzeDoneMsg:
		s.busy = false
		if msg.err != nil {
			a.showError(msg.err, a.startAnalyze)
			return a, nil
		}
		s.result = msg.result
		s.resultInstruction = msg.instruction
		s.report.SetContent(msg.result)
		s.report.GotoTop()
		a.view = viewResult
		return a, nil

	case loadDoneMsg:
		if msg.err != nil {
			a.showError(msg.err, nil)
			return a, nil
		}
		a.setDataset(msg.dataset, msg.path, 0)
		s.notice = fmt.Sprintf("Loaded %d entries from %s", msg.dataset.Len(), msg.path)
		a.view = viewPreview
		return a, nil

	case saveDoneMsg:
		if msg.err != nil {
			a.showError(msg.err, nil)
			return a, nil
		}
		s.notice = "Saved to " + msg.path
		a.view = s.returnView
		return a, nil
	}

	return a, a.updateInputs(msg)
}

// updateInputs forwards non-key messages, such as cursor blinks, to
// whichever input currently has focus
func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	s := a.state
	var cmd tea.Cmd

	switch {
	case a.view == viewSetup && s.setupStep == 1,
		a.view == viewSettings && s.settingsMode == "apikey":
		s.apiKeyInput, cmd = s.apiKeyInput.Update(msg)
	case a.view == viewSetup && s.setupStep == 2:
		s.baseURLInput, cmd = s.baseURLInput.Update(msg)
	case a.view == viewPath:
		s.pathInput, cmd = s.pathInput.Update(msg)
	case a.view == viewMain && s.focus == focusCustom:
		s.customPrompt, cmd = s.customPrompt.Update(msg)
	}
	return cmd
}

func (a *App) resize() {
	s := a.state

	s.preview.SetColumns(previewColumns(a.width))
	s.preview.SetWidth(max(a.width-4, 20))
	s.preview.SetHeight(max(a.height-12, 5))

	s.report.Width = max(a.width-6, 20)
	s.report.Height = max(a.height-10, 5)

	s.customPrompt.SetWidth(min(max(a.width-10, 20), 76))
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		a.quitting = true
		return tea.Quit
	}

	// only ctrl+c gets through while a model call is running
	if a.state.busy {
		return nil
	}

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewMain:
		return a.handleMainKey(msg)
	case viewPreview:
		return a.handlePreviewKey(msg)
	case viewPath:
		return a.handlePathKey(msg)
	case viewResult:
		return a.handleResultKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewHelp:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Help) || msg.String() == "q" {
			a.view = viewMain
		}
	case viewError:
		return a.handleErrorKey(msg)
	}

	return nil
}

func (a *App) handleMainKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	if s.focus == focusCustom {
		switch {
		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Back):
			s.focus = focusPicker
			s.customPrompt.Blur()
			return nil
		case key.Matches(msg, keys.Run):
			return a.startAnalyze()
		}
		var cmd tea.Cmd
		s.customPrompt, cmd = s.customPrompt.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Back), msg.String() == "q":
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, keys.Up):
		if s.promptCursor > 0 {
			s.promptCursor--
		}

	case key.Matches(msg, keys.Down):
		if s.promptCursor < s.promptCount()-1 {
			s.promptCursor++
		}

	case key.Matches(msg, keys.Tab):
		s.focus = focusCustom
		return s.customPrompt.Focus()

	case key.Matches(msg, keys.Generate):
		return a.startGenerate()

	case key.Matches(msg, keys.Open):
		return a.openPath(pathOpen, "")

	case key.Matches(msg, keys.Analyze), key.Matches(msg, keys.Run):
		return a.startAnalyze()

	case key.Matches(msg, keys.Preview):
		if s.dataset.Len() > 0 {
			a.view = viewPreview
		}

	case key.Matches(msg, keys.Settings):
		s.settingsMode = ""
		a.view = viewSettings

	case key.Matches(msg, keys.Help):
		a.view = viewHelp
	}

	return nil
}

func (a *App) handlePreviewKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch {
	case key.Matches(msg, keys.Back), msg.String() == "a":
		s.notice = ""
		a.view = viewMain
		return nil
	case key.Matches(msg, keys.Save), msg.String() == "s":
		return a.openPath(pathSaveDataset, dataset.DefaultFilename)
	}

	var cmd tea.Cmd
	s.preview, cmd = s.preview.Update(msg)
	return cmd
}

func (a *App) handlePathKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch {
	case key.Matches(msg, keys.Back):
		s.pathInput.Blur()
		a.view = s.returnView
		return nil

	case key.Matches(msg, keys.Enter):
		path := strings.TrimSpace(s.pathInput.Value())
		if path == "" {
			return nil
		}
		s.pathInput.Blur()
		switch s.pathMode {
		case pathSaveDataset:
			return saveDatasetCmd(path, s.dataset)
		case pathSaveReport:
			return saveReportCmd(path, s.result)
		default:
			return loadCmd(path)
		}
	}

	var cmd tea.Cmd
	s.pathInput, cmd = s.pathInput.Update(msg)
	return cmd
}

func (a *App) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch {
	case key.Matches(msg, keys.Back):
		s.notice = ""
		a.view = viewMain
		return nil
	case key.Matches(msg, keys.Save):
		return a.openPath(pathSaveReport, reportFilename)
	}

	var cmd tea.Cmd
	s.report, cmd = s.report.Update(msg)
	return cmd
}

func (a *App) handleErrorKey(msg tea.KeyMsg) tea.Cmd {
	s := a.state

	switch {
	case key.Matches(msg, keys.Retry):
		if s.retry != nil {
			retry := s.retry
			s.err, s.retry = nil, nil
			a.view = viewMain
			return retry()
		}
	case key.Matches(msg, keys.Settings):
		s.err, s.retry = nil, nil
		s.settingsMode = ""
		a.view = viewSettings
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
		s.err, s.retry = nil, nil
		a.view = viewMain
		if s.needsSetup {
			a.view = viewSetup
		}
	}
	return nil
}

func (a *App) startGenerate() tea.Cmd {
	s := a.state
	if s.app == nil {
		a.showError(a.notConnected(), nil)
		return nil
	}
	label := fmt.Sprintf("Generating %d feedback entries...", s.config.Generate.Count)
	return a.startBusy(label, generateCmd(s.app.Generator))
}

func (a *App) startAnalyze() tea.Cmd {
	s := a.state
	if s.app == nil {
		a.showError(a.notConnected(), nil)
		return nil
	}

	instruction, err := s.app.Prompts.Resolve(s.promptCursor, s.customPrompt.Value())
	if err != nil {
		s.notice = "Choose a prompt or write your own first"
		return nil
	}

	contents := s.dataset.Contents()
	if err := s.app.Analyzer.Check(contents, instruction); err != nil {
		a.showError(err, nil)
		return nil
	}

	label := fmt.Sprintf("Analyzing %d entries...", len(contents))
	return a.startBusy(label, analyzeCmd(s.app.Analyzer, contents, instruction))
}

func (a *App) startBusy(label string, cmd tea.Cmd) tea.Cmd {
	s := a.state
	s.busy = true
	s.busyLabel = label
	s.notice = ""
	a.view = viewBusy
	return tea.Batch(cmd, s.spinner.Tick)
}

func (a *App) openPath(mode pathMode, initial string) tea.Cmd {
	s := a.state
	s.pathMode = mode
	s.returnView = a.view
	s.pathInput.SetValue(initial)
	s.pathInput.CursorEnd()
	a.view = viewPath
	return s.pathInput.Focus()
}

func (a *App) setDataset(d dataset.Dataset, source string, skipped int) {
	s := a.state
	s.dataset = d
	s.datasetSource = source
	s.skipped = skipped
	s.preview.SetRows(previewRows(d))
	s.preview.GotoTop()
	s.preview.Focus()
}

func (a *App) showError(err error, retry func() tea.Cmd) {
	a.state.err = err
	a.state.retry = retry
	a.view = viewError
}

func (a *App) notConnected() error {
	if a.state.providerError != nil {
		return a.state.providerError
	}
	return errNotConnected
}

func previewColumns(width int) []table.Column {
	content := width - 4 - 18 - 12
	if content < 20 {
		content = 20
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Type", Width: 18},
		{Title: "Content", Width: content},
	}
}

func previewRows(d dataset.Dataset) []table.Row {
	rows := make([]table.Row, len(d))
	for i, r := range d {
		rows[i] = table.Row{fmt.Sprintf("%d", i+1), oneLine(r.Type), oneLine(r.Content)}
	}
	return rows
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewBusy:
		return a.renderBusy()
	case viewPreview:
		return a.renderPreview()
	case viewPath:
		return a.renderPath()
	case viewResult:
		return a.renderResult()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	case viewError:
		return a.renderError()
	default:
		return a.renderMain()
	}
}
