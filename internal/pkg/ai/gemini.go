package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// GeminiProvider generates text with the Gemini generate-content API.
type GeminiProvider struct {
	config ProviderConfig
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(config ProviderConfig) *GeminiProvider {
	return &GeminiProvider{config: config}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return ProviderNameGoogle
}

func (p *GeminiProvider) clientOptions(apiKey string) []option.ClientOption {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if p.config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.config.Endpoint))
	}
	return opts
}

// Generate sends the prompt as the only content part and returns the text of the first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, p.clientOptions(req.APIKey)...)
	if err != nil {
		return nil, classifyError(p.Name(), err)
	}
	defer client.Close()

	apperrors.LogAPIRequest(p.Name(), req.Model, len(req.Prompt))
	start := time.Now()

	model := client.GenerativeModel(req.Model)
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyError(p.Name(), err)
	}

	duration := time.Since(start)
	text := firstCandidateText(resp)
	apperrors.LogAPIResponse(p.Name(), len(text), duration)
	if text == "" {
		return nil, apperrors.Wrap(errors.New("first candidate has no text"), apperrors.ErrProviderCall, "empty response from google")
	}

	return &GenerateResponse{Text: text, Model: req.Model, Duration: duration}, nil
}

// firstCandidateText concatenates the text parts of the first candidate.
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
