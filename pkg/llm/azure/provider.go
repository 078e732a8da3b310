package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-webchat-be/pkg/llm"
)

// AzureProvider talks to an Azure OpenAI chat-completions deployment.
type AzureProvider struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Client     *http.Client
}

var _ llm.CompletionProvider = &AzureProvider{}

func NewAzureProvider(endpoint, apiKey, deployment, apiVersion string) *AzureProvider {
	return &AzureProvider{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		APIKey:     apiKey,
		Deployment: deployment,
		APIVersion: apiVersion,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

// azureMessage.Content is either a plain string or a slice of content blocks
// (vision messages), so it stays interface{} and is shaped at build time.
type azureMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type azureTextBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

type azureImageURL struct {
	URL string `json:"url"`
}

type azureImageBlock struct {
	Type     string        `json:"type"` // "image_url"
	ImageURL azureImageURL `json:"image_url"`
}

type azureChatRequest struct {
	Messages    []azureMessage `json:"messages"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Temperature float64        `json:"temperature"`
	TopP        float64        `json:"top_p,omitempty"`
}

type azureChatChoice struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
}

type azureChatResponse struct {
	Choices []azureChatChoice `json:"choices"`
}

type azureErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Interface Implementation ---

func (a *AzureProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	// 1. Process Options
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	// 2. Map generic messages to Azure OpenAI messages
	azureMessages := make([]azureMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		azureMessages[i] = azureMessage{
			Role:    role,
			Content: buildContent(msg),
		}
	}

	// 3. Prepare Payload
	reqPayload := azureChatRequest{
		Messages:    azureMessages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}
	if options.TopP > 0 {
		reqPayload.TopP = options.TopP
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// 4. Send Request
	deployment := a.Deployment
	if options.Model != "" {
		deployment = options.Model
	}
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		a.Endpoint, deployment, a.APIVersion)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.APIKey)

	res, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var errRes azureErrorResponse
		if json.Unmarshal(resBody, &errRes) == nil && errRes.Error.Message != "" {
			return "", fmt.Errorf("azure openai status %d: %s", res.StatusCode, errRes.Error.Message)
		}
		return "", fmt.Errorf("azure openai status %d: %s", res.StatusCode, string(resBody))
	}

	var chatRes azureChatResponse
	if err := json.Unmarshal(resBody, &chatRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chatRes.Choices) == 0 {
		return "", fmt.Errorf("azure openai returned no choices")
	}

	return chatRes.Choices[0].Message.Content, nil
}

func (a *AzureProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return a.Chat(ctx, []llm.Message{
		{Role: "system", Content: prompt},
	}, opts...)
}

// buildContent returns a plain string for text-only messages and a content
// block array when images are attached.
func buildContent(msg llm.Message) interface{} {
	if len(msg.Images) == 0 {
		return msg.Content
	}

	blocks := make([]interface{}, 0, len(msg.Images)+1)
	for _, img := range msg.Images {
		blocks = append(blocks, azureImageBlock{
			Type:     "image_url",
			ImageURL: azureImageURL{URL: img.DataURI()},
		})
	}
	blocks = append(blocks, azureTextBlock{
		Type: "text",
		Text: msg.Content,
	})
	return blocks
}
