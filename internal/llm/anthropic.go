package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

type AnthropicProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return &AnthropicProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.anthropic.com/v1",
		httpClient: newHTTPClient(),
	}
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

func (a *AnthropicProvider) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}
}

func (a *AnthropicProvider) Ping(ctx context.Context) error {
	return getOK(ctx, a.httpClient, "anthropic", a.baseURL+"/models", a.headers())
}

// claudeRequest is the Messages API body, shared with Bedrock which
// accepts the same shape plus anthropic_version.
type claudeRequest struct {
	Model            string          `json:"model,omitempty"`
	AnthropicVersion string          `json:"anthropic_version,omitempty"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"top_p,omitempty"`
	TopK             int             `json:"top_k,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func newClaudeRequest(req *CompletionRequest) claudeRequest {
	system, turns := splitSystem(req.Messages)

	messages := make([]claudeMessage, len(turns))
	for i, m := range turns {
		messages[i] = claudeMessage{Role: m.Role, Content: m.Content}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	// newer Claude models reject temperature and top_p together
	out := claudeRequest{
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    messages,
		Temperature: req.Temperature,
		TopK:        req.TopK,
	}
	if req.Temperature == 0 {
		out.TopP = req.TopP
	}
	return out
}

func (r claudeResponse) toCompletion(provider, model string) (*CompletionResponse, error) {
	var text strings.Builder
	for _, block := range r.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, fmt.Errorf("%s: %w", provider, ErrEmptyResponse)
	}

	return &CompletionResponse{
		Content:      text.String(),
		Model:        model,
		FinishReason: r.StopReason,
		Usage: Usage{
			PromptTokens:     r.Usage.InputTokens,
			CompletionTokens: r.Usage.OutputTokens,
			TotalTokens:      r.Usage.InputTokens + r.Usage.OutputTokens,
		},
	}, nil
}

func (a *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	apiReq := newClaudeRequest(req)
	apiReq.Model = model

	var apiResp claudeResponse
	if err := postJSON(ctx, a.httpClient, "anthropic", a.baseURL+"/messages", a.headers(), apiReq, &apiResp); err != nil {
		return nil, err
	}

	return apiResp.toCompletion("anthropic", model)
}
