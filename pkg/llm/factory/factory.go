package factory

import (
	"fmt"

	"ai-interviewer-be/pkg/llm"
	"ai-interviewer-be/pkg/llm/groq"
	"ai-interviewer-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		if apiKey == "" {
			return nil, fmt.Errorf("groq provider requires an API key")
		}
		return groq.NewGroqProvider(baseURL, apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
