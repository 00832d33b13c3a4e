package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/pulse/internal/analyzer"
	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/dataset"
	"github.com/sant0-9/pulse/internal/generator"
	"github.com/sant0-9/pulse/internal/llm"
	"github.com/sant0-9/pulse/internal/prompts"
)

type stubProvider struct {
	reply string
	err   error

	calls int
	req   *llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Ping(ctx context.Context) error { return nil }

func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.reply}, nil
}

// newTestApp returns a TUI that is already connected to stub
func newTestApp(t *testing.T, stub *stubProvider) *App {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.PromptsDir = t.TempDir()

	svc, err := app.NewWithProvider(cfg, stub)
	if err != nil {
		t.Fatalf("NewWithProvider() error = %v", err)
	}

	a := NewApp(cfg, false)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	a.Update(providerReadyMsg{app: svc})
	return a
}

func press(a *App, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds back the first message of type T
func deliver[T tea.Msg](t *testing.T, a *App, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range collect(cmd) {
		if m, ok := msg.(T); ok {
			a.Update(m)
			return m
		}
	}
	var zero T
	t.Fatalf("command did not produce %T", zero)
	return zero
}

var sample = dataset.Dataset{
	{Type: "Email", Content: "I'm feeling overwhelmed with workload."},
	{Type: "Chat", Content: "Great job on the project!"},
}

func TestInitNeedsSetup(t *testing.T) {
	a := NewApp(config.DefaultConfig(), true)
	a.Init()

	if a.view != viewSetup {
		t.Errorf("view = %v, want setup", a.view)
	}
	if !strings.Contains(a.View(), "Choose the model provider") {
		t.Error("setup view does not list providers")
	}
}

func TestSetupSavesConfig(t *testing.T) {
	t.Setenv("PULSE_CONFIG_DIR", t.TempDir())

	a := NewApp(config.DefaultConfig(), true)
	a.Init()

	// gemini is first and needs a key
	press(a, "enter")
	if a.state.setupStep != 1 {
		t.Fatalf("setupStep = %d, want 1", a.state.setupStep)
	}

	press(a, "secret-key")
	cmd := press(a, "enter")
	deliver[setupCompleteMsg](t, a, cmd)

	if a.view != viewMain || a.state.needsSetup {
		t.Errorf("view = %v needsSetup = %v, want main and false", a.view, a.state.needsSetup)
	}

	cfg, err := config.Load()
	if err != nil || cfg == nil {
		t.Fatalf("Load() = %v, %v", cfg, err)
	}
	if cfg.Provider != "gemini" || cfg.APIKey != "secret-key" {
		t.Errorf("saved provider=%q key=%q", cfg.Provider, cfg.APIKey)
	}
}

func TestSetupEscGoesBack(t *testing.T) {
	a := NewApp(config.DefaultConfig(), true)
	a.Init()

	press(a, "enter")
	press(a, "esc")

	if a.state.setupStep != 0 {
		t.Errorf("setupStep = %d, want 0", a.state.setupStep)
	}
}

func TestPromptNavigation(t *testing.T) {
	a := newTestApp(t, &stubProvider{})

	press(a, "j")
	press(a, "j")
	if a.state.promptCursor != 2 {
		t.Errorf("promptCursor = %d, want 2", a.state.promptCursor)
	}

	for i := 0; i < 5; i++ {
		press(a, "k")
	}
	if a.state.promptCursor != 0 {
		t.Errorf("promptCursor = %d, want 0", a.state.promptCursor)
	}

	for i := 0; i < 100; i++ {
		press(a, "j")
	}
	if want := len(prompts.Catalog) - 1; a.state.promptCursor != want {
		t.Errorf("promptCursor = %d, want %d", a.state.promptCursor, want)
	}
}

func TestAnalyzeNeedsPrompt(t *testing.T) {
	stub := &stubProvider{}
	a := newTestApp(t, stub)
	a.setDataset(sample, "test", 0)

	cmd := press(a, "a")

	if cmd != nil {
		t.Error("expected no command with the placeholder selected")
	}
	if a.view != viewMain || a.state.notice == "" {
		t.Errorf("view = %v notice = %q, want main with a notice", a.view, a.state.notice)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times", stub.calls)
	}
}

func TestAnalyzeWithoutDataset(t *testing.T) {
	stub := &stubProvider{}
	a := newTestApp(t, stub)

	press(a, "j")
	press(a, "a")

	if a.view != viewError {
		t.Fatalf("view = %v, want error", a.view)
	}
	if !errors.Is(a.state.err, analyzer.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", a.state.err)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times", stub.calls)
	}
}

func TestAnalyzeFlow(t *testing.T) {
	stub := &stubProvider{reply: "## Summary\nMostly positive."}
	a := newTestApp(t, stub)
	a.setDataset(sample, "test", 0)

	press(a, "j")
	cmd := press(a, "a")

	if a.view != viewBusy || !a.state.busy {
		t.Fatalf("view = %v busy = %v, want busy", a.view, a.state.busy)
	}

	// keys other than ctrl+c are ignored while busy
	if press(a, "g") != nil || a.view != viewBusy {
		t.Error("key handled while busy")
	}

	deliver[analyzeDoneMsg](t, a, cmd)

	if a.view != viewResult || a.state.busy {
		t.Fatalf("view = %v busy = %v, want result", a.view, a.state.busy)
	}
	if a.state.result != stub.reply {
		t.Errorf("result = %q, want %q", a.state.result, stub.reply)
	}
	if a.state.resultInstruction != prompts.Catalog[1] {
		t.Errorf("instruction = %q", a.state.resultInstruction)
	}

	want := analyzer.BuildPrompt(prompts.Catalog[1], sample.Contents())
	got := stub.req.Messages[len(stub.req.Messages)-1].Content
	if got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}

	press(a, "esc")
	if a.view != viewMain {
		t.Errorf("view = %v, want main", a.view)
	}
}

func TestCustomPromptWins(t *testing.T) {
	stub := &stubProvider{reply: "ok"}
	a := newTestApp(t, stub)
	a.setDataset(sample, "test", 0)

	press(a, "j")
	press(a, "tab")
	if a.state.focus != focusCustom {
		t.Fatal("tab did not focus the prompt box")
	}
	press(a, "Summarize")
	cmd := press(a, "ctrl+r")

	msg := deliver[analyzeDoneMsg](t, a, cmd)
	if msg.instruction != "Summarize" {
		t.Errorf("instruction = %q, want custom text", msg.instruction)
	}
}

func TestGenerateFlow(t *testing.T) {
	stub := &stubProvider{reply: "Type: Email, Content: \"Need help.\"\n" +
		"Type: Chat, Content: \"Thanks team!\"\n" +
		"Type: , Content: \"dropped\"\n"}
	a := newTestApp(t, stub)

	cmd := press(a, "g")
	if a.view != viewBusy {
		t.Fatalf("view = %v, want busy", a.view)
	}
	deliver[generateDoneMsg](t, a, cmd)

	if a.view != viewPreview {
		t.Fatalf("view = %v, want preview", a.view)
	}
	if a.state.dataset.Len() != 2 || a.state.skipped != 1 {
		t.Errorf("dataset len = %d skipped = %d, want 2 and 1", a.state.dataset.Len(), a.state.skipped)
	}
	if rows := a.state.preview.Rows(); len(rows) != 2 {
		t.Errorf("preview rows = %d, want 2", len(rows))
	}
	if !strings.Contains(a.View(), "1 malformed lines skipped") {
		t.Error("preview does not report skipped lines")
	}
}

func TestGenerateErrorRetry(t *testing.T) {
	stub := &stubProvider{err: errors.New("boom")}
	a := newTestApp(t, stub)

	deliver[generateDoneMsg](t, a, press(a, "g"))

	if a.view != viewError {
		t.Fatalf("view = %v, want error", a.view)
	}
	if !errors.Is(a.state.err, generator.ErrServiceUnavailable) {
		t.Errorf("err = %v, want ErrServiceUnavailable", a.state.err)
	}

	stub.err = nil
	stub.reply = "Type: Email, Content: \"ok\""
	cmd := press(a, "r")
	if a.view != viewBusy {
		t.Fatalf("view after retry = %v, want busy", a.view)
	}
	deliver[generateDoneMsg](t, a, cmd)
	if a.view != viewPreview || stub.calls != 2 {
		t.Errorf("view = %v calls = %d, want preview after 2 calls", a.view, stub.calls)
	}
}

func TestSaveAndOpenDataset(t *testing.T) {
	a := newTestApp(t, &stubProvider{})
	a.setDataset(sample, "generated", 0)
	a.view = viewPreview

	press(a, "w")
	if a.view != viewPath || a.state.pathInput.Value() != dataset.DefaultFilename {
		t.Fatalf("view = %v path = %q", a.view, a.state.pathInput.Value())
	}

	path := filepath.Join(t.TempDir(), "out", "feedback.csv")
	a.state.pathInput.SetValue(path)
	deliver[saveDoneMsg](t, a, press(a, "enter"))

	if a.view != viewPreview {
		t.Errorf("view after save = %v, want preview", a.view)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want, _ := dataset.ToCSV(sample)
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	a.setDataset(nil, "", 0)
	press(a, "esc")
	press(a, "o")
	if a.view != viewPath || a.state.pathMode != pathOpen {
		t.Fatalf("view = %v mode = %v, want open path", a.view, a.state.pathMode)
	}
	a.state.pathInput.SetValue(path)
	deliver[loadDoneMsg](t, a, press(a, "enter"))

	if a.view != viewPreview {
		t.Fatalf("view after open = %v, want preview", a.view)
	}
	if !reflect.DeepEqual(a.state.dataset, sample) {
		t.Errorf("dataset = %#v, want %#v", a.state.dataset, sample)
	}
	if a.state.datasetSource != path {
		t.Errorf("source = %q, want %q", a.state.datasetSource, path)
	}
}

func TestOpenMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Type,Text\nEmail,hello\n"), 0644); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, &stubProvider{})
	deliver[loadDoneMsg](t, a, loadCmd(path))

	if a.view != viewError {
		t.Fatalf("view = %v, want error", a.view)
	}
	if !errors.Is(a.state.err, dataset.ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", a.state.err)
	}
	if len(suggest(a.state.err)) == 0 {
		t.Error("no suggestions for a missing column")
	}
	if a.state.retry != nil {
		t.Error("import errors should not offer a retry")
	}
}

func TestSaveReport(t *testing.T) {
	a := newTestApp(t, &stubProvider{})
	a.state.result = "report body"
	a.view = viewResult

	press(a, "w")
	path := filepath.Join(t.TempDir(), "report.md")
	a.state.pathInput.SetValue(path)
	deliver[saveDoneMsg](t, a, press(a, "enter"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "report body" {
		t.Errorf("report = %q", data)
	}
	if a.view != viewResult {
		t.Errorf("view = %v, want result", a.view)
	}
}

func TestCtrlCQuitsWhileBusy(t *testing.T) {
	a := newTestApp(t, &stubProvider{})
	a.state.busy = true
	a.view = viewBusy

	if press(a, "ctrl+c") == nil || !a.quitting {
		t.Error("ctrl+c did not quit")
	}
}

func TestNotConnected(t *testing.T) {
	a := NewApp(config.DefaultConfig(), false)
	a.Update(providerErrorMsg{errors.New("create provider: bad key")})

	press(a, "g")
	if a.view != viewError {
		t.Fatalf("view = %v, want error", a.view)
	}
	if !strings.Contains(a.state.err.Error(), "bad key") {
		t.Errorf("err = %v", a.state.err)
	}
}

func TestSettingsModel(t *testing.T) {
	t.Setenv("PULSE_CONFIG_DIR", t.TempDir())
	a := newTestApp(t, &stubProvider{})

	press(a, "s")
	if a.view != viewSettings {
		t.Fatalf("view = %v, want settings", a.view)
	}
	press(a, "m")
	press(a, "j")
	cmd := press(a, "enter")

	p := config.GetProvider("gemini")
	if a.state.config.Model != p.Models[1] {
		t.Errorf("model = %q, want %q", a.state.config.Model, p.Models[1])
	}
	if a.state.app != nil {
		t.Error("services should be rebuilt after a settings change")
	}
	deliver[setupCompleteMsg](t, a, cmd)
	if !config.Exists() {
		t.Error("config was not saved")
	}
}

func TestSettingsShowsSamplingAndPrompts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.APIKey = "test-key-123456"
	cfg.PromptsDir = t.TempDir()
	cfg.Analysis.Params.TopK = 12
	if err := os.WriteFile(filepath.Join(cfg.PromptsDir, "mine.md"), []byte("List the worries."), 0644); err != nil {
		t.Fatal(err)
	}

	svc, err := app.NewWithProvider(cfg, &stubProvider{})
	if err != nil {
		t.Fatalf("NewWithProvider() error = %v", err)
	}
	a := NewApp(cfg, false)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	a.Update(providerReadyMsg{app: svc})

	press(a, "s")
	got := a.View()

	for _, want := range []string{
		"Sampling",
		"top_k",
		"40       12",
		"max tokens",
		"1024     8192",
		"Own files  1",
		truncate(cfg.PromptsDir, 44),
		"test****3456",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("settings view missing %q", want)
		}
	}
	if strings.Contains(got, "test-key-123456") {
		t.Error("settings view shows the full API key")
	}
}

func TestSettingsPickerMarksCurrent(t *testing.T) {
	a := newTestApp(t, &stubProvider{})

	press(a, "s")
	press(a, "m")

	got := a.View()
	if !strings.Contains(got, a.state.config.Model+" (current)") {
		t.Errorf("model picker does not mark %q as current", a.state.config.Model)
	}
	if !strings.Contains(got, "Provider: Gemini") {
		t.Error("model picker is missing the provider line")
	}
}

func TestViewsRender(t *testing.T) {
	a := newTestApp(t, &stubProvider{})
	a.setDataset(sample, "test", 0)
	a.state.result = "report"
	a.state.report.SetContent("report")
	a.state.err = analyzer.ErrTimeout

	tests := []struct {
		view view
		want string
	}{
		{viewMain, "Employee Sentiment Analysis"},
		{viewBusy, "Working"},
		{viewPreview, "Email: 1"},
		{viewPath, "Open a feedback CSV"},
		{viewResult, "Analysis"},
		{viewSettings, "Settings"},
		{viewHelp, "Keyboard Shortcuts"},
		{viewError, "did not answer in time"},
	}

	for _, tt := range tests {
		a.view = tt.view
		if got := a.View(); !strings.Contains(got, tt.want) {
			t.Errorf("view %v missing %q", tt.view, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, size int
		start, end      int
	}{
		{5, 0, 8, 0, 5},
		{16, 0, 8, 0, 8},
		{16, 7, 8, 3, 11},
		{16, 15, 8, 8, 16},
	}

	for _, tt := range tests {
		start, end := window(tt.n, tt.cursor, tt.size)
		if start != tt.start || end != tt.end {
			t.Errorf("window(%d, %d, %d) = %d, %d, want %d, %d",
				tt.n, tt.cursor, tt.size, start, end, tt.start, tt.end)
		}
	}
}
