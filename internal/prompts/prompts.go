package prompts

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed generate.md
var generateTemplate string

// GenerateInstruction returns the dataset generation prompt asking for
// count feedback entries.
func GenerateInstruction(count int) string {
	return strings.ReplaceAll(strings.TrimSpace(generateTemplate), "{{COUNT}}", strconv.Itoa(count))
}
