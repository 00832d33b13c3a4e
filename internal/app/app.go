// Package app wires configuration, the model provider and the
// generation and analysis services together once at startup.
package app

import (
	"context"
	"fmt"

	"github.com/sant0-9/pulse/internal/analyzer"
	"github.com/sant0-9/pulse/internal/config"
	"github.com/sant0-9/pulse/internal/generator"
	"github.com/sant0-9/pulse/internal/llm"
	"github.com/sant0-9/pulse/internal/prompts"
)

type App struct {
	Config    *config.Config
	Provider  llm.Provider
	Generator *generator.Generator
	Analyzer  *analyzer.Analyzer
	Prompts   *prompts.Library
}

// New validates cfg and builds the provider from it
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return NewWithProvider(cfg, provider)
}

// NewWithProvider wires the services around an existing provider
func NewWithProvider(cfg *config.Config, provider llm.Provider) (*App, error) {
	dir, err := cfg.ResolvedPromptsDir()
	if err != nil {
		return nil, err
	}

	lib, err := prompts.NewLibrary(dir)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	return &App{
		Config:    cfg,
		Provider:  provider,
		Generator: generator.New(provider, cfg),
		Analyzer:  analyzer.New(provider, cfg),
		Prompts:   lib,
	}, nil
}
