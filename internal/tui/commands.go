package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/pulse/internal/analyzer"
	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/dataset"
	"github.com/sant0-9/pulse/internal/generator"
)

const pingTimeout = 5 * time.Second

type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }

type providerReadyMsg struct {
	app     *app.App
	pingErr error
}
type providerErrorMsg struct{ error }

type generateDoneMsg struct {
	result *generator.Result
	err    error
}

type analyzeDoneMsg struct {
	instruction string
	result      string
	err         error
}

type loadDoneMsg struct {
	path    string
	dataset dataset.Dataset
	err     error
}

type saveDoneMsg struct {
	path string
	err  error
}

// connect builds the services from cfg and checks the provider answers.
// A failed ping still yields a usable app.
func connect(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		svc, err := app.New(context.Background(), cfg)
		if err != nil {
			return providerErrorMsg{err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		return providerReadyMsg{app: svc, pingErr: svc.Provider.Ping(ctx)}
	}
}

func saveConfig(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		if err := cfg.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

func generateCmd(g *generator.Generator) tea.Cmd {
	return func() tea.Msg {
		res, err := g.Generate(context.Background())
		return generateDoneMsg{result: res, err: err}
	}
}

func analyzeCmd(an *analyzer.Analyzer, contents []string, instruction string) tea.Cmd {
	return func() tea.Msg {
		out, err := an.Analyze(context.Background(), contents, instruction)
		return analyzeDoneMsg{instruction: instruction, result: out, err: err}
	}
}

func loadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(expandHome(path))
		if err != nil {
			return loadDoneMsg{path: path, err: err}
		}
		defer f.Close()

		d, err := dataset.ReadCSV(f)
		return loadDoneMsg{path: path, dataset: d, err: err}
	}
}

func saveDatasetCmd(path string, d dataset.Dataset) tea.Cmd {
	return func() tea.Msg {
		text, err := dataset.ToCSV(d)
		if err != nil {
			return saveDoneMsg{path: path, err: err}
		}
		return saveDoneMsg{path: path, err: writeFile(path, text)}
	}
}

func saveReportCmd(path, report string) tea.Cmd {
	return func() tea.Msg {
		return saveDoneMsg{path: path, err: writeFile(path, report)}
	}
}

func writeFile(path, content string) error {
	path = expandHome(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func expandHome(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
