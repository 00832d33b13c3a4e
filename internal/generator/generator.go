// Package generator asks the model for a synthetic employee feedback
// dataset and parses the answer into records.
package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/dataset"
	"github.com/sant0-9/pulse/internal/llm"
	"github.com/sant0-9/pulse/internal/prompts"
)

// Result is a parsed generation response
type Result struct {
	Dataset dataset.Dataset
	Skipped int    // lines with both markers that failed to parse
	Raw     string // model output as received
	Usage   llm.Usage
}

type Generator struct {
	provider llm.Provider
	model    string
	count    int
	params   config.GenerationParams
	timeout  time.Duration
}

func New(provider llm.Provider, cfg *config.Config) *Generator {
	return &Generator{
		provider: provider,
		model:    cfg.Model,
		count:    cfg.Generate.Count,
		params:   cfg.Generate.Params,
		timeout:  cfg.Timeout,
	}
}

// Instruction returns the prompt sent to the model
func (g *Generator) Instruction() string {
	return prompts.GenerateInstruction(g.count)
}

// Generate sends one generation request. No partial dataset is returned
// on failure.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	req := llm.NewPromptRequest(g.model, g.Instruction(), g.params)

	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		gerr := classify(err)
		slog.Error("generation failed", "provider", g.provider.Name(), "kind", gerr.Kind, "error", err)
		return nil, gerr
	}

	d, skipped := dataset.ParseGenerated(resp.Content)

	slog.Info("dataset generated",
		"provider", g.provider.Name(),
		"records", d.Len(),
		"skipped", skipped,
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
	)

	return &Result{
		Dataset: d,
		Skipped: skipped,
		Raw:     resp.Content,
		Usage:   resp.Usage,
	}, nil
}
