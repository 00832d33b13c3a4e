package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/sant0-9/pulse/internal/app"
	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/dataset"
	"github.com/sant0-9/pulse/internal/logging"
	"github.com/sant0-9/pulse/internal/prompts"
	"github.com/sant0-9/pulse/internal/server"
	"github.com/sant0-9/pulse/internal/tui"
)

var version = "dev"

const usage = `pulse - employee sentiment analysis

Usage:
  pulse                      start the terminal UI
  pulse generate [-o file]   generate a synthetic dataset as CSV
  pulse analyze -f file (-p prompt | -n index)
                             analyze a feedback CSV
  pulse prompts              list the analysis prompts
  pulse serve [-addr addr]   run the HTTP API
  pulse version              print the version
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, found, err := config.Resolve()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return runTUI(cfg, found)
	}

	switch args[0] {
	case "generate":
		return runGenerate(cfg, args[1:])
	case "analyze":
		return runAnalyze(cfg, args[1:])
	case "prompts":
		return runPrompts(cfg)
	case "serve":
		return runServe(cfg, args[1:])
	case "version", "-v", "--version":
		fmt.Println("pulse", version)
		return nil
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runTUI(cfg *config.Config, found bool) error {
	if path, err := config.LogPath(); err == nil {
		if _, closer, err := logging.InitFile(path, cfg.LogLevel); err == nil {
			defer closer.Close()
		}
	}

	needsSetup := !found && cfg.Validate() != nil
	slog.Info("starting tui", "version", version, "provider", cfg.Provider, "setup", needsSetup)

	p := tea.NewProgram(
		tui.NewApp(cfg, needsSetup),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}

func runGenerate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	out := fs.String("o", "", "write the CSV to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	logging.Init(os.Stderr, cfg.LogLevel, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	// open the destination first so a bad path fails before the model call
	w, closeOut, err := output(*out)
	if err != nil {
		return err
	}

	res, err := a.Generator.Generate(ctx)
	if err != nil {
		closeOut()
		return err
	}
	if res.Skipped > 0 {
		slog.Warn("skipped malformed lines", "count", res.Skipped)
	}

	if err := writeDataset(w, closeOut, res.Dataset); err != nil {
		return err
	}
	if *out != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d entries to %s\n", res.Dataset.Len(), *out)
	}
	return nil
}

func runAnalyze(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	file := fs.String("f", "", "feedback CSV with a Content column")
	prompt := fs.String("p", "", "analysis instruction")
	index := fs.Int("n", 0, "catalog prompt index, see 'pulse prompts'")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("analyze: -f is required")
	}
	logging.Init(os.Stderr, cfg.LogLevel, false)

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := dataset.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *file, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	instruction, err := a.Prompts.Resolve(*index, *prompt)
	if err != nil {
		return fmt.Errorf("analyze: %w (use -p or -n)", err)
	}

	result, err := a.Analyzer.Analyze(ctx, d.Contents(), instruction)
	if err != nil {
		return err
	}

	fmt.Println(result)
	return nil
}

func runPrompts(cfg *config.Config) error {
	logging.Init(os.Stderr, cfg.LogLevel, false)

	dir, err := cfg.ResolvedPromptsDir()
	if err != nil {
		return err
	}
	lib, err := prompts.NewLibrary(dir)
	if err != nil {
		return err
	}

	for i, p := range lib.All() {
		if i == 0 {
			continue
		}
		fmt.Printf("%3d  %s\n", i, p.Name)
		if p.Name != p.Text {
			fmt.Printf("     %s\n", strings.ReplaceAll(strings.TrimSpace(p.Text), "\n", "\n     "))
		}
	}
	return nil
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Server.Addr = *addr

	logging.Init(os.Stderr, cfg.LogLevel, true)

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		slog.Info(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		slog.Warn("failed to set GOMAXPROCS", "error", err)
	}
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.Server.AuthToken == "" {
		slog.Warn("no auth token configured, the API is open")
	}

	slog.Info("starting pulse", "version", version, "provider", a.Provider.Name(), "model", cfg.Model)
	return server.New(a).Run(ctx)
}

// output returns stdout for an empty path
func output(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// writeDataset writes d as CSV and closes the destination, reporting
// whichever fails first
func writeDataset(w io.Writer, closeOut func() error, d dataset.Dataset) error {
	if err := dataset.WriteCSV(w, d); err != nil {
		closeOut()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
