package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// DefaultOutfitPrompt is used when the caller supplies none.
const DefaultOutfitPrompt = "Compose these clothing items into a single flat-lay outfit photo on a clean neutral background."

// OutfitGenerator composes a set of reference images (processed garment
// PNGs, in the order the user arranged them) into one outfit image.
type OutfitGenerator interface {
	Generate(ctx context.Context, imageURLs []string, prompt string) ([]byte, error)
}

// GeminiGenerator backs OutfitGenerator with the Gemini image model. Each
// reference URL is fetched and passed to the model as inline image data
// alongside the prompt; the first inline-data part of the first candidate
// is the composite.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	fetcher *http.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		fetcher: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, imageURLs []string, prompt string) ([]byte, error) {
	if prompt == "" {
		prompt = DefaultOutfitPrompt
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, url := range imageURLs {
		data, contentType, err := g.fetchImage(ctx, url)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, contentType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no candidates in response", ErrGatewayUnavailable)
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}

	return nil, fmt.Errorf("%w: no image data in response", ErrGatewayUnavailable)
}

func (g *GeminiGenerator) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.fetcher.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetching reference image: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: fetching reference image: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading reference image: %v", ErrGatewayUnavailable, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	return data, contentType, nil
}
