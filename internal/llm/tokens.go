package llm

import "strings"

// EstimateTokens returns approximate token count (~4 chars per token)
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// ContextLimit returns the context window size for a model
func ContextLimit(model string) int {
	model = strings.ToLower(model)

	if strings.Contains(model, "gemini-1.5-pro") {
		return 2000000
	}
	if strings.Contains(model, "gemini") {
		return 1000000
	}

	// Claude, direct or on Bedrock
	if strings.Contains(model, "claude") {
		return 200000
	}

	// GPT-4 variants
	if strings.Contains(model, "gpt-4o") || strings.Contains(model, "gpt-4-turbo") {
		return 128000
	}
	if strings.Contains(model, "gpt-4-32k") {
		return 32000
	}
	if strings.Contains(model, "gpt-4") {
		return 8000
	}

	// Llama variants
	if strings.Contains(model, "llama-3") || strings.Contains(model, "llama3") {
		return 128000
	}
	if strings.Contains(model, "llama") {
		return 8000
	}

	if strings.Contains(model, "mixtral") {
		return 32000
	}

	return 8000
}
