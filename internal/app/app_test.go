package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/llm"
)

type echoProvider struct{}

func (echoProvider) Name() string                   { return "echo" }
func (echoProvider) Ping(ctx context.Context) error { return nil }
func (echoProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: "Type: Chat, Content: " + req.Messages[0].Content[:8]}, nil
}

func TestNewWithProvider(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.PromptsDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.PromptsDir, "mine.md"), []byte("Find quick wins."), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := NewWithProvider(cfg, echoProvider{})
	if err != nil {
		t.Fatalf("NewWithProvider() error = %v", err)
	}

	res, err := a.Generator.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Dataset.Len() != 1 || res.Dataset[0].Type != "Chat" {
		t.Errorf("dataset = %+v", res.Dataset)
	}

	out, err := a.Analyzer.Analyze(context.Background(), []string{"ok"}, "Summarize.")
	if err != nil || !strings.HasPrefix(out, "Type: Chat") {
		t.Errorf("Analyze() = %q, %v", out, err)
	}

	if a.Prompts.Len() == 0 || a.Prompts.All()[a.Prompts.Len()-1].Name != "mine" {
		t.Errorf("user prompt not loaded: %v", a.Prompts.Names())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.APIKey = ""

	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("New() error = nil, want validation error")
	}
}
