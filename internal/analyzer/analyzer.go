// Package analyzer sends a feedback dataset together with an instruction
// to the model and returns its answer verbatim.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/llm"
)

type Analyzer struct {
	provider llm.Provider
	model    string
	params   config.GenerationParams
	timeout  time.Duration
	maxRows  int
}

func New(provider llm.Provider, cfg *config.Config) *Analyzer {
	return &Analyzer{
		provider: provider,
		model:    cfg.Model,
		params:   cfg.Analysis.Params,
		timeout:  cfg.Timeout,
		maxRows:  cfg.Analysis.MaxRows,
	}
}

// BuildPrompt joins the instruction and every content entry with blank
// lines, in input order.
func BuildPrompt(instruction string, contents []string) string {
	return instruction + "\n\n" + strings.Join(contents, "\n\n")
}

// Check validates the input without calling the model
func (a *Analyzer) Check(contents []string, instruction string) error {
	if len(contents) == 0 {
		return &Error{Kind: ErrEmptyInput}
	}
	if strings.TrimSpace(instruction) == "" {
		return &Error{Kind: ErrEmptyInstruction}
	}
	if a.maxRows > 0 && len(contents) > a.maxRows {
		return &Error{Kind: ErrTooLarge, Err: fmt.Errorf("%d rows exceeds the limit of %d", len(contents), a.maxRows)}
	}

	tokens := llm.EstimateTokens(BuildPrompt(instruction, contents))
	if limit := llm.ContextLimit(a.model); tokens > limit {
		return &Error{Kind: ErrTooLarge, Err: fmt.Errorf("about %d tokens exceeds the %d token context of %s", tokens, limit, a.model)}
	}
	return nil
}

// Analyze sends one request and returns the model's text unmodified
func (a *Analyzer) Analyze(ctx context.Context, contents []string, instruction string) (string, error) {
	if err := a.Check(contents, instruction); err != nil {
		return "", err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	req := llm.NewPromptRequest(a.model, BuildPrompt(instruction, contents), a.params)

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		aerr := classify(err)
		slog.Error("analysis failed", "provider", a.provider.Name(), "kind", aerr.Kind, "error", err)
		return "", aerr
	}

	slog.Info("analysis complete",
		"provider", a.provider.Name(),
		"rows", len(contents),
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
	)

	return resp.Content, nil
}
