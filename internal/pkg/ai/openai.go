package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// OpenAITemperature is sent with every chat completion.
const OpenAITemperature = 0.4

// OpenAIProvider generates text with the OpenAI chat completions API.
type OpenAIProvider struct {
	config ProviderConfig
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(config ProviderConfig) *OpenAIProvider {
	return &OpenAIProvider{config: config}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderNameOpenAI
}

func (p *OpenAIProvider) client(apiKey string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)

	// Support custom endpoints (for OpenAI-compatible APIs)
	if p.config.Endpoint != "" {
		clientConfig.BaseURL = p.config.Endpoint
	}
	clientConfig.HTTPClient = p.config.httpClient()

	return openai.NewClientWithConfig(clientConfig)
}

// Generate sends the prompt as a single user message and returns the first choice.
func (p *OpenAIProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		Temperature: OpenAITemperature,
	}

	apperrors.LogAPIRequest(p.Name(), req.Model, len(req.Prompt))
	start := time.Now()

	resp, err := p.client(req.APIKey).CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classifyError(p.Name(), err)
	}

	duration := time.Since(start)
	if len(resp.Choices) == 0 {
		return nil, apperrors.Wrap(errors.New("response contained no choices"), apperrors.ErrProviderCall, "empty response from openai")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	apperrors.LogAPIResponse(p.Name(), len(text), duration)
	if text == "" {
		return nil, apperrors.Wrap(errors.New("first choice has no content"), apperrors.ErrProviderCall, "empty response from openai")
	}

	return &GenerateResponse{Text: text, Model: req.Model, Duration: duration}, nil
}
