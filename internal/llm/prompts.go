package llm

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"strings"
)

// DefaultPromptVersion is the plant identification prompt sent with every image.
const DefaultPromptVersion = "plant_v1"

//go:embed prompts/plant_v1.txt
var promptPlantV1 string

// PromptTemplate returns the prompt text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch version {
	case "plant_v1":
		return strings.TrimSpace(promptPlantV1), true
	default:
		return "", false
	}
}

// PromptHash returns a stable identifier for a prompt, used in logs.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:8])
}
