package factory

import (
	"fmt"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm/huggingface"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
