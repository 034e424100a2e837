package llm

import (
	"fmt"
	"strings"

	"github.com/qezhu/medqc/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider name
// means advice is disabled and both returns are nil.
func NewProvider(config model.LLMConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}
