package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// bedrockInvoker is the part of the Bedrock runtime client we use
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider runs Claude models through AWS Bedrock using the
// default AWS credential chain.
type BedrockProvider struct {
	client bedrockInvoker
	model  string
	region string
}

func NewBedrockProvider(ctx context.Context, region, model string) (*BedrockProvider, error) {
	if region == "" {
		region = "us-east-1"
	}
	if model == "" {
		model = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  model,
		region: region,
	}, nil
}

func (b *BedrockProvider) Name() string {
	return "bedrock"
}

// Ping sends a one-token request; Bedrock runtime has no health endpoint
func (b *BedrockProvider) Ping(ctx context.Context) error {
	_, err := b.invoke(ctx, b.model, claudeRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        1,
		Messages:         []claudeMessage{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		return fmt.Errorf("cannot reach Bedrock in %s: %w", b.region, err)
	}
	return nil
}

func (b *BedrockProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = b.model
	}

	body := newClaudeRequest(req)
	body.AnthropicVersion = bedrockAnthropicVersion

	resp, err := b.invoke(ctx, model, body)
	if err != nil {
		return nil, err
	}
	return resp.toCompletion("bedrock", model)
}

func (b *BedrockProvider) invoke(ctx context.Context, model string, body claudeRequest) (*claudeResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        data,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock request failed: %w", err)
	}

	var resp claudeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode Bedrock response: %w", err)
	}
	return &resp, nil
}
