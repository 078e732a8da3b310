package factory

import (
	"fmt"

	"ai-webchat-be/pkg/llm"
	"ai-webchat-be/pkg/llm/azure"
	"ai-webchat-be/pkg/llm/ollama"
)

// Config carries the provider settings so the factory stays decoupled from
// the application config package.
type Config struct {
	Provider string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string

	OllamaBaseURL string
	OllamaModel   string
}

func NewCompletionProvider(cfg Config) (llm.CompletionProvider, error) {
	switch cfg.Provider {
	case "azure":
		if cfg.AzureEndpoint == "" || cfg.AzureAPIKey == "" || cfg.AzureDeployment == "" {
			return nil, fmt.Errorf("azure provider requires endpoint, api key and deployment")
		}
		apiVersion := cfg.AzureAPIVersion
		if apiVersion == "" {
			apiVersion = "2024-05-01-preview" // Default
		}
		return azure.NewAzureProvider(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureDeployment, apiVersion), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}
