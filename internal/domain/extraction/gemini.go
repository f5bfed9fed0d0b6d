package extraction

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const maxOutputTokens = 4096

// ExtractionClient invokes a multimodal model against a document and returns
// its raw textual response.
type ExtractionClient interface {
	Extract(ctx context.Context, mimeType string, data []byte) (string, error)
}

// GeminiClient implements ExtractionClient on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed extraction client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Extract sends one user message carrying the fixed extraction instruction
// plus the inlined document, and returns the model's text. Upstream failures
// are classified by status code: 429 and 402 get dedicated sentinels since
// the caller remediation differs (wait vs. top up); everything else is a
// generic extraction failure.
func (c *GeminiClient) Extract(ctx context.Context, mimeType string, data []byte) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: maxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", classifyUpstreamError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty model response", ErrExtraction)
	}
	return text, nil
}

func classifyUpstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return fmt.Errorf("%w: %d %s", ErrRateLimited, apiErr.Code, apiErr.Status)
		case 402:
			return fmt.Errorf("%w: %d %s", ErrNoCredits, apiErr.Code, apiErr.Status)
		}
	}
	return fmt.Errorf("%w: %v", ErrExtraction, err)
}
